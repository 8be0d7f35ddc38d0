package restyutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// DirectoryOutput writes one file per exchange into a directory.
type DirectoryOutput struct {
	directory string
}

func NewDirectoryOutput(dir string) (DirectoryOutput, error) {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return DirectoryOutput{}, fmt.Errorf("create dump directory: %w", err)
	}
	return DirectoryOutput{directory: dir}, nil
}

func (o DirectoryOutput) Write(name string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, name), []byte(contents), 0o600)
	if err != nil {
		slog.Warn("failed to write http dump", "name", name, "err", err)
	}
}

// Dump writes every exchange the client completes to output, named
// "<n>-<method>.txt" with n counting up from 1.
func Dump(client *resty.Client, output DirectoryOutput) {
	var counter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		n := atomic.AddUint64(&counter, 1)
		output.Write(fmt.Sprintf("%04d-%s.txt", n, res.Request.Method), FormatExchange(res))
		return nil
	})
}
