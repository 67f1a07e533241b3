// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package host

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/ohler55/ojg/oj"
	"github.com/samber/oops"

	"github.com/quickplug/quickplug/pkg/listing"
)

// Environment variables set by the interactive driver for child
// processes.
const (
	// EnvIPC marks the process as a driver child; "1" selects the pipe
	// host.
	EnvIPC = "QUICKPLUG_IPC"

	// EnvAddonID carries the addon identifier.
	EnvAddonID = "QUICKPLUG_ADDON_ID"

	// EnvSettings carries the addon settings as a JSON object of
	// string values.
	EnvSettings = "QUICKPLUG_SETTINGS"

	// EnvStrings carries the localized strings as a JSON object keyed
	// by numeric id.
	EnvStrings = "QUICKPLUG_STRINGS"

	// EnvProfile carries the addon profile directory path.
	EnvProfile = "QUICKPLUG_PROFILE"
)

// Message is one line of the duplex pipe protocol. A message with a
// non-nil Prompt is a request: the parent must read a line from its own
// standard input and send it back before the child continues. The
// handshake keys on presence of the prompt field, not its text, so an
// empty prompt still round-trips. A message with Result set ends the
// conversation.
type Message struct {
	Prompt *string       `json:"prompt"`
	Notice *Notification `json:"notify,omitempty"`
	Result *Result       `json:"result,omitempty"`
}

// Notification is a forwarded notify call.
type Notification struct {
	Heading string `json:"heading"`
	Message string `json:"message"`
	Icon    string `json:"icon,omitempty"`
}

// PipeHost implements Host and Renderer over a line-oriented JSON duplex
// stream, for plugins running as children of the interactive driver.
// All writes are single newline-terminated JSON objects.
type PipeHost struct {
	mu       sync.Mutex
	out      io.Writer
	in       *bufio.Reader
	settings map[string]string
	strings  map[int]string
	closed   bool
}

// PipeOption configures a PipeHost.
type PipeOption func(*PipeHost)

// WithSettings provides the addon settings.
func WithSettings(settings map[string]string) PipeOption {
	return func(h *PipeHost) {
		h.settings = settings
	}
}

// WithStrings provides the localized strings.
func WithStrings(strs map[int]string) PipeOption {
	return func(h *PipeHost) {
		h.strings = strs
	}
}

// NewPipeHost creates a pipe host reading replies from r and writing
// messages to w.
func NewPipeHost(r io.Reader, w io.Writer, opts ...PipeOption) *PipeHost {
	h := &PipeHost{
		out:      w,
		in:       bufio.NewReader(r),
		settings: make(map[string]string),
		strings:  make(map[int]string),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// PipeHostFromEnv creates a pipe host over stdin/stdout, loading
// settings and strings from the driver-provided environment.
func PipeHostFromEnv() (*PipeHost, error) {
	settings, err := decodeEnvSettings(os.Getenv(EnvSettings))
	if err != nil {
		return nil, err
	}
	strs, err := decodeEnvStrings(os.Getenv(EnvStrings))
	if err != nil {
		return nil, err
	}
	return NewPipeHost(os.Stdin, os.Stdout,
		WithSettings(settings), WithStrings(strs)), nil
}

// Setting returns the addon setting for key.
func (h *PipeHost) Setting(key string) string {
	return h.settings[key]
}

// LocalizedString returns the localized string for id.
func (h *PipeHost) LocalizedString(id int) string {
	return h.strings[id]
}

// Notify forwards a notification to the parent. Never fails; a broken
// pipe means the parent is gone and the notification has nowhere to go.
func (h *PipeHost) Notify(heading, message, icon string) {
	_ = h.send(&Message{Notice: &Notification{
		Heading: heading,
		Message: message,
		Icon:    icon,
	}})
}

// Prompt sends a prompt request and blocks until the parent replies with
// one line of input.
func (h *PipeHost) Prompt(prompt string) (string, error) {
	if err := h.send(&Message{Prompt: &prompt}); err != nil {
		return "", err
	}
	line, err := h.in.ReadString('\n')
	if err != nil && line == "" {
		return "", oops.Wrapf(err, "prompt reply not received")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Display sends the listing to the parent as the cycle result.
func (h *PipeHost) Display(_ int, l *listing.Listing) error {
	return h.sendResult(resultFromListing(l))
}

// EndOfDirectory sends an item-less result carrying only the success
// flag.
func (h *PipeHost) EndOfDirectory(_ int, succeeded bool) {
	_ = h.sendResult(&Result{Succeeded: succeeded})
}

// Resolve sends a resolved playable item as the cycle result.
func (h *PipeHost) Resolve(_ int, item *listing.Item) error {
	return h.sendResult(&Result{Succeeded: true, Resolved: resultItem(item)})
}

// Close sends a failure result if no result was sent, so the parent
// never blocks on a child that died before rendering.
func (h *PipeHost) Close() error {
	return h.sendResult(&Result{Succeeded: false})
}

// sendResult sends the terminal message of the conversation. Only the
// first result wins; later calls are ignored.
func (h *PipeHost) sendResult(res *Result) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()
	return h.send(&Message{Result: res})
}

// send writes one protocol line.
func (h *PipeHost) send(msg *Message) error {
	data, err := oj.Marshal(msg)
	if err != nil {
		return oops.Wrapf(err, "encoding pipe message")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := h.out.Write(append(data, '\n')); err != nil {
		return oops.Wrapf(err, "writing pipe message")
	}
	return nil
}

// decodeEnvSettings parses the JSON settings object from the
// environment.
func decodeEnvSettings(raw string) (map[string]string, error) {
	out := make(map[string]string)
	if raw == "" {
		return out, nil
	}
	if err := oj.Unmarshal([]byte(raw), &out); err != nil {
		return nil, oops.Wrapf(err, "parsing %s", EnvSettings)
	}
	return out, nil
}

// decodeEnvStrings parses the JSON strings object from the environment.
// JSON object keys are strings, so the numeric ids arrive quoted.
func decodeEnvStrings(raw string) (map[int]string, error) {
	out := make(map[int]string)
	if raw == "" {
		return out, nil
	}
	byKey := make(map[string]string)
	if err := oj.Unmarshal([]byte(raw), &byKey); err != nil {
		return nil, oops.Wrapf(err, "parsing %s", EnvStrings)
	}
	for k, v := range byKey {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, oops.With("id", k).Wrapf(err, "parsing %s", EnvStrings)
		}
		out[id] = v
	}
	return out, nil
}
