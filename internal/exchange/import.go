package exchange

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/maraval/coprojet/internal/domain/participant"
	"github.com/maraval/coprojet/internal/domain/timeline"
)

// Import decodes and validates an exported envelope. currentRelease is the
// running release version; payloads saved under a different major are
// rejected. All failures are recoverable and name what is wrong.
func Import(data []byte, currentRelease string) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("decoding envelope: %w", err)
	}

	if env.Version <= 0 || strings.TrimSpace(env.ReleaseVersion) == "" {
		return Envelope{}, ErrNoVersion
	}
	if !IsCompatibleVersion(env.ReleaseVersion, currentRelease) {
		return Envelope{}, fmt.Errorf("%w: saved under %s, running %s",
			ErrIncompatibleVersion, env.ReleaseVersion, currentRelease)
	}

	if env.Participants == nil {
		return Envelope{}, fmt.Errorf("%w: participants", ErrMissingField)
	}
	if env.Params == nil {
		return Envelope{}, fmt.Errorf("%w: project_params", ErrMissingField)
	}
	if env.DeedDate == nil || env.DeedDate.IsZero() {
		return Envelope{}, fmt.Errorf("%w: deed_date", ErrMissingField)
	}

	if err := participant.ValidateAll(env.Participants); err != nil {
		return Envelope{}, err
	}
	for i, evt := range env.Events {
		if !evt.Type.IsValid() {
			return Envelope{}, fmt.Errorf("event %d: %w: %q", i, timeline.ErrUnknownEventType, evt.Type)
		}
	}

	return env, nil
}

// IsCompatibleVersion reports whether a saved release version can be read
// by the running one. Only the major component matters.
func IsCompatibleVersion(saved, current string) bool {
	savedMajor, ok := majorOf(saved)
	if !ok {
		return false
	}
	currentMajor, ok := majorOf(current)
	if !ok {
		return false
	}
	return savedMajor == currentMajor
}

func majorOf(version string) (int, bool) {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	head, _, _ := strings.Cut(version, ".")
	major, err := strconv.Atoi(head)
	if err != nil {
		return 0, false
	}
	return major, true
}
