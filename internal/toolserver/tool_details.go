package toolserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_yt/internal/engine"
	"github.com/anatolykoptev/go_yt/internal/toolutil"
	"github.com/anatolykoptev/go_yt/internal/youtube"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (t *tools) details(ctx context.Context, _ *mcp.CallToolRequest, input engine.DetailsInput) (*mcp.CallToolResult, engine.VideoMetadata, error) {
	ref, err := toolutil.NormRef(input.Ref)
	if err != nil {
		return nil, engine.VideoMetadata{}, err
	}
	return nil, t.api.Details(ctx, ref, input.IsID), nil
}

func (t *tools) search(ctx context.Context, _ *mcp.CallToolRequest, input engine.SearchInput) (*mcp.CallToolResult, engine.SearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, engine.SearchOutput{}, errors.New("query is required")
	}
	v, err := t.api.Search(ctx, query)
	if errors.Is(err, youtube.ErrNotFound) {
		return nil, engine.SearchOutput{Query: query, Video: youtube.Unknown()}, nil
	}
	if err != nil {
		engine.IncrToolError()
		return nil, engine.SearchOutput{}, fmt.Errorf("search: %w", err)
	}
	return nil, engine.SearchOutput{Query: query, Found: true, Video: *v}, nil
}

func (t *tools) track(ctx context.Context, _ *mcp.CallToolRequest, input engine.DetailsInput) (*mcp.CallToolResult, engine.TrackOutput, error) {
	ref, err := toolutil.NormRef(input.Ref)
	if err != nil {
		return nil, engine.TrackOutput{}, err
	}
	tr, id := t.api.Track(ctx, ref, input.IsID)
	return nil, engine.TrackOutput{Found: id != "", Track: tr}, nil
}

func (t *tools) slider(ctx context.Context, _ *mcp.CallToolRequest, input engine.SliderInput) (*mcp.CallToolResult, engine.SliderItem, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, engine.SliderItem{}, errors.New("query is required")
	}
	return nil, t.api.Slider(ctx, query, false, input.Index), nil
}
