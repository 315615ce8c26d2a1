package offline

import (
	"encoding/json"
	"fmt"
	"strings"
)

type CommandType string

const (
	CommandSkipWaiting    CommandType = "SKIP_WAITING"
	CommandCacheFavorites CommandType = "CACHE_FAVORITES"

	SyncTagFavorites = "sync-favorites"
)

// Command is a control message posted to the interception layer.
type Command interface {
	Type() CommandType
}

type SkipWaiting struct{}

func (SkipWaiting) Type() CommandType { return CommandSkipWaiting }

type CacheFavorites struct {
	StationIDs []string
}

func (CacheFavorites) Type() CommandType { return CommandCacheFavorites }

type commandEnvelope struct {
	Type      CommandType `json:"type"`
	Favoritos []string    `json:"favoritos,omitempty"`
}

func ParseCommand(raw []byte) (Command, error) {
	var envelope commandEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}

	switch envelope.Type {
	case CommandSkipWaiting:
		return SkipWaiting{}, nil
	case CommandCacheFavorites:
		return CacheFavorites{StationIDs: cleanIDs(envelope.Favoritos)}, nil
	case "":
		return nil, fmt.Errorf("%w: type is required", ErrInvalidCommand)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, envelope.Type)
	}
}

func EncodeCommand(cmd Command) ([]byte, error) {
	switch c := cmd.(type) {
	case SkipWaiting:
		return json.Marshal(commandEnvelope{Type: CommandSkipWaiting})
	case CacheFavorites:
		return json.Marshal(commandEnvelope{Type: CommandCacheFavorites, Favoritos: cleanIDs(c.StationIDs)})
	case nil:
		return nil, fmt.Errorf("%w: nil command", ErrInvalidCommand)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type())
	}
}

func cleanIDs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, raw := range in {
		id := strings.TrimSpace(raw)
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
