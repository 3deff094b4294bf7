package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var errNotTerminal = errors.New("stdin is not a terminal")

// promptPassword reads one line without echo when in is a terminal and as
// plain text otherwise, so passwords can be piped in.
func promptPassword(in io.Reader, out io.Writer, label string) (string, error) {
	_, _ = fmt.Fprint(out, label)

	if file, ok := in.(*os.File); ok {
		password, err := readPasswordNoEcho(file)
		if err == nil {
			_, _ = fmt.Fprintln(out)
			return string(password), nil
		}
		if !errors.Is(err, errNotTerminal) {
			return "", fmt.Errorf("read password: %w", err)
		}
	}

	line, err := readLine(in)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if line == "" {
		return "", errors.New("password is required")
	}
	return line, nil
}

// readLine reads byte by byte so consecutive prompts on one piped reader do
// not lose input to buffering.
func readLine(in io.Reader) (string, error) {
	var line strings.Builder
	buffer := make([]byte, 1)
	for {
		read, err := in.Read(buffer)
		if read == 1 {
			if buffer[0] == '\n' {
				break
			}
			line.WriteByte(buffer[0])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strings.TrimRight(line.String(), "\r"), nil
}
