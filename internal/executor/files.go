package executor

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

func (he *hostExecutor) WriteFile(op string, name string, data []byte, perm fs.FileMode) error {
	return he.writeFile(op, name, data, perm, os.O_CREATE|os.O_WRONLY|os.O_TRUNC)
}

func (he *hostExecutor) AppendFile(op string, name string, data []byte, perm fs.FileMode) error {
	return he.writeFile(op, name, data, perm, os.O_CREATE|os.O_WRONLY|os.O_APPEND)
}

func (he *hostExecutor) CopyFile(op string, src string, name string, perm fs.FileMode) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return he.WriteFile(op, name, data, perm)
}

func (he *hostExecutor) writeFile(op string, name string, data []byte, perm fs.FileMode, flag int) error {
	path := TargetPath(he.root, name)
	he.logger.WithField("op", op).Debugf("writing %s", path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	f, err := os.OpenFile(path, flag, perm)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (de *dryRunExecutor) WriteFile(op string, name string, data []byte, perm fs.FileMode) error {
	de.logger.WithField("op", op).Infof("dry run, not writing %d bytes to %s", len(data), TargetPath(de.root, name))
	return nil
}

func (de *dryRunExecutor) AppendFile(op string, name string, data []byte, perm fs.FileMode) error {
	de.logger.WithField("op", op).Infof("dry run, not appending %d bytes to %s", len(data), TargetPath(de.root, name))
	return nil
}

func (de *dryRunExecutor) CopyFile(op string, src string, name string, perm fs.FileMode) error {
	de.logger.WithField("op", op).Infof("dry run, not copying %s to %s", src, TargetPath(de.root, name))
	return nil
}

// TargetPath joins a path inside the target with the target root.
func TargetPath(root, name string) string {
	return filepath.Join(root, filepath.Clean("/"+name))
}
