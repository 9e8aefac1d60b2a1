package toolserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anatolykoptev/go_yt/internal/engine"
	"github.com/anatolykoptev/go_yt/internal/toggle"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (t *tools) setToggle(ctx context.Context, _ *mcp.CallToolRequest, input engine.ToggleInput) (*mcp.CallToolResult, engine.ToggleOutput, error) {
	key := input.Key
	if key == 0 {
		key = toggle.PreferFullDownload
	}
	setter, ok := t.toggles.(toggle.Setter)
	if !ok {
		return nil, engine.ToggleOutput{}, fmt.Errorf("toggle store is read-only")
	}
	if err := setter.Set(ctx, key, input.Enabled); err != nil {
		engine.IncrToolError()
		return nil, engine.ToggleOutput{}, fmt.Errorf("set toggle %d: %w", key, err)
	}
	slog.Info("youtube_toggle: set", slog.Int("key", key), slog.Bool("enabled", input.Enabled))
	return nil, engine.ToggleOutput{Key: key, Enabled: input.Enabled}, nil
}
