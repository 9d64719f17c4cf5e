package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	Namespace          = "jade"
	InstallerSubsystem = "installer"
)

type ObserveFunc func() time.Duration

// WriteTextfile writes every registered metric to path in the text
// exposition format, for node_exporter's textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
