package stream

import (
	"errors"
	"io"
	"strings"
)

// ErrNoPayload indicates the input stream contained no JSON interval array.
var ErrNoPayload = errors.New("no JSON payload found in input stream")

// Input is a timewarrior-style export stream split into its two parts:
// the configuration header and the JSON interval payload.
type Input struct {
	Header  []string
	Payload []byte
}

// Read consumes the whole stream and splits it at the first line that opens
// the JSON array. Everything before belongs to the configuration header,
// everything from that line on is the payload.
func Read(r io.Reader) (*Input, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(data), "\n")
	payloadStart := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "[") {
			payloadStart = i
			break
		}
	}
	if payloadStart == -1 {
		return nil, ErrNoPayload
	}

	var header []string
	for _, line := range lines[:payloadStart] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		header = append(header, line)
	}

	return &Input{
		Header:  header,
		Payload: []byte(strings.Join(lines[payloadStart:], "\n")),
	}, nil
}
