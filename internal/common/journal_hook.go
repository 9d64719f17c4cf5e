// Inspired by github.com/wercker/journalhook (MIT license)
package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coreos/go-systemd/v22/journal"
	logrus "github.com/sirupsen/logrus"
)

// JournalHook sends every log entry to the systemd journal, with the
// entry's fields as upper case journal fields.
type JournalHook struct {
	// Identifier is sent as SYSLOG_IDENTIFIER
	Identifier string

	send func(message string, priority journal.Priority, vars map[string]string) error
}

var ErrJournalUnavailable = errors.New("systemd journal is not available")

var (
	severityMap = map[logrus.Level]journal.Priority{
		logrus.TraceLevel: journal.PriDebug,
		logrus.DebugLevel: journal.PriDebug,
		logrus.InfoLevel:  journal.PriInfo,
		logrus.WarnLevel:  journal.PriWarning,
		logrus.ErrorLevel: journal.PriErr,
		logrus.FatalLevel: journal.PriCrit,
		logrus.PanicLevel: journal.PriEmerg,
	}
)

func NewJournalHook(identifier string) (*JournalHook, error) {
	if !journal.Enabled() {
		return nil, ErrJournalUnavailable
	}
	return &JournalHook{
		Identifier: identifier,
		send:       journal.Send,
	}, nil
}

func stringifyOp(r rune) rune {
	switch {
	case r >= 'A' && r <= 'Z':
		return r
	case r >= '0' && r <= '9':
		return r
	case r == '_':
		return r
	case r >= 'a' && r <= 'z':
		return r - 32
	default:
		return rune('_')
	}
}

// journal field names are upper case and must not start with _
func stringifyKey(key string) string {
	key = strings.Map(stringifyOp, key)
	key = strings.TrimLeft(key, "_")
	return key
}

func journalFields(identifier string, entry *logrus.Entry) map[string]string {
	fields := make(map[string]string, len(entry.Data)+1)
	for k, v := range entry.Data {
		if err, ok := v.(error); ok {
			fields[stringifyKey(k)] = err.Error()
			continue
		}
		fields[stringifyKey(k)] = fmt.Sprint(v)
	}
	if identifier != "" {
		fields["SYSLOG_IDENTIFIER"] = identifier
	}
	return fields
}

func (hook *JournalHook) Fire(entry *logrus.Entry) error {
	return hook.send(entry.Message, severityMap[entry.Level], journalFields(hook.Identifier, entry))
}

func (hook *JournalHook) Levels() []logrus.Level {
	return logrus.AllLevels
}
