package systemutil

import (
	"fmt"

	"github.com/hpcloud/tail"
)

// StreamLog follows a log file and prints every new line to stdout until
// the process is interrupted.
func StreamLog(path string) error {
	t, err := tail.TailFile(path, tail.Config{Follow: true})
	if err != nil {
		return err
	}
	for line := range t.Lines {
		fmt.Println(line.Text)
	}
	return nil
}
