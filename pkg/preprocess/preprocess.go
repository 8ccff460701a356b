// Package preprocess runs the C preprocessor over a header and returns the
// expanded text with Unix line endings.
package preprocess

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrPreprocessorFailed reports a missing binary, a non-zero exit, or empty
// or binary output.
var ErrPreprocessorFailed = errors.New("preprocessor failed")

const (
	windowsOS = "windows"

	// binarySniffLength bounds the NUL-byte scan of the output.
	binarySniffLength = 8000
)

// Runner invokes an external preprocessor.
type Runner struct {
	// Command is the executable; empty selects the platform default.
	Command string
	// Args are passed before the include, define and header arguments.
	// Nil selects the platform default flags.
	Args        []string
	IncludeDirs []string
	Defines     []string
}

// DefaultCommand returns the preprocessor for the current platform.
func DefaultCommand() (string, []string) {
	return defaultCommandFor(runtime.GOOS)
}

func defaultCommandFor(goos string) (string, []string) {
	if goos == windowsOS {
		return "cl", []string{"/nologo", "/EP"}
	}

	return "cpp", []string{"-P"}
}

// CommandLine returns the executable and arguments Run would use for header.
func (r *Runner) CommandLine(header string) (string, []string) {
	command, args := DefaultCommand()
	if r.Command != "" {
		command = r.Command
	}

	if r.Args != nil {
		args = r.Args
	}

	includeFlag, defineFlag := "-I", "-D"
	if strings.EqualFold(strings.TrimSuffix(command, ".exe"), "cl") {
		includeFlag, defineFlag = "/I", "/D"
	}

	out := make([]string, 0, len(args)+len(r.IncludeDirs)+len(r.Defines)+1)
	out = append(out, args...)

	for _, dir := range r.IncludeDirs {
		out = append(out, includeFlag+dir)
	}

	for _, def := range r.Defines {
		out = append(out, defineFlag+def)
	}

	return command, append(out, header)
}

// Run preprocesses header and returns its expanded text.
func (r *Runner) Run(ctx context.Context, header string) ([]byte, error) {
	command, args := r.CommandLine(header)

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w: %s",
			ErrPreprocessorFailed, command, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}

	if len(bytes.TrimSpace(stdout.Bytes())) == 0 {
		return nil, fmt.Errorf("%w: %s produced no output for %s", ErrPreprocessorFailed, command, header)
	}

	if IsBinary(stdout.Bytes()) {
		return nil, fmt.Errorf("%w: %s produced binary output for %s", ErrPreprocessorFailed, command, header)
	}

	return NormalizeNewlines(stdout.Bytes()), nil
}

// IsBinary reports a NUL byte within the first 8000 bytes of data, the
// heuristic Git uses.
func IsBinary(data []byte) bool {
	sniff := data
	if len(sniff) > binarySniffLength {
		sniff = sniff[:binarySniffLength]
	}

	return bytes.IndexByte(sniff, 0) >= 0
}

// CountLines returns the number of lines in data, counting a final line
// without a newline.
func CountLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}

	lines := bytes.Count(data, []byte{'\n'})
	if data[len(data)-1] != '\n' {
		lines++
	}

	return lines
}

// NormalizeNewlines converts CRLF line endings to LF.
func NormalizeNewlines(data []byte) []byte {
	return bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
}
