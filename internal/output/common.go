package output

import (
	"io"
	"os"
)

func truncateMessage(msg string, maxLen int) string {
	r := []rune(msg)
	if len(r) <= maxLen {
		return msg
	}
	return string(r[:maxLen-3]) + "..."
}

// OpenOutputWriter returns stdout for an empty path, otherwise a newly
// created file. The returned file is nil for stdout and must be closed by
// the caller otherwise.
func OpenOutputWriter(outputPath string) (io.Writer, *os.File, error) {
	if outputPath == "" {
		return os.Stdout, nil, nil
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}
