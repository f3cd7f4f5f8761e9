package search

import (
	"context"
	"errors"
	"fmt"

	"hybridsearch/internal/domain"
)

// Strategy runs a search for one mode and shapes the result set
type Strategy interface {
	Mode() domain.Mode
	Search(ctx context.Context, query string) (domain.ResultSet, error)
}

// scoreChunk is one ranked hit; the first metadata entry is the hit itself,
// the rest are collisions
type scoreChunk struct {
	Metadata []domain.ChunkMetadata `json:"metadata"`
}

type groupChunk struct {
	GroupName string       `json:"group_name"`
	Metadata  []scoreChunk `json:"metadata"`
}

type groupSearchResponse struct {
	GroupChunks *[]groupChunk `json:"group_chunks"`
}

type chunkSearchResponse struct {
	ScoreChunks *[]scoreChunk `json:"score_chunks"`
}

var errMissingMetadata = errors.New("score chunk has no metadata")

func (s scoreChunk) first() (domain.ChunkMetadata, error) {
	if len(s.Metadata) == 0 {
		return domain.ChunkMetadata{}, errMissingMetadata
	}
	return s.Metadata[0], nil
}

// GroupStrategy searches over groups
type GroupStrategy struct {
	client *Client
}

func NewGroupStrategy(client *Client) *GroupStrategy {
	return &GroupStrategy{client: client}
}

func (s *GroupStrategy) Mode() domain.Mode { return domain.ModeGroup }

func (s *GroupStrategy) Search(ctx context.Context, query string) (domain.ResultSet, error) {
	var resp groupSearchResponse
	if err := s.client.Post(ctx, GroupSearchPath, NewRequest(query), &resp); err != nil {
		return nil, err
	}
	results, err := decodeGroups(resp)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// decodeGroups keeps the first hit of every entry in every group
func decodeGroups(resp groupSearchResponse) (domain.GroupResults, error) {
	if resp.GroupChunks == nil {
		return nil, &DecodeError{Err: errors.New("response has no group_chunks")}
	}

	results := make(domain.GroupResults, 0, len(*resp.GroupChunks))
	for i, gc := range *resp.GroupChunks {
		group := domain.Group{
			Name:    gc.GroupName,
			Entries: make([]domain.ChunkMetadata, 0, len(gc.Metadata)),
		}
		for j, sc := range gc.Metadata {
			hit, err := sc.first()
			if err != nil {
				return nil, &DecodeError{Err: fmt.Errorf("group %d entry %d: %w", i, j, err)}
			}
			group.Entries = append(group.Entries, hit)
		}
		results = append(results, group)
	}
	return results, nil
}

// ChunkStrategy searches individual chunks
type ChunkStrategy struct {
	client *Client
}

func NewChunkStrategy(client *Client) *ChunkStrategy {
	return &ChunkStrategy{client: client}
}

func (s *ChunkStrategy) Mode() domain.Mode { return domain.ModeChunk }

func (s *ChunkStrategy) Search(ctx context.Context, query string) (domain.ResultSet, error) {
	var resp chunkSearchResponse
	if err := s.client.Post(ctx, ChunkSearchPath, NewRequest(query), &resp); err != nil {
		return nil, err
	}
	results, err := decodeChunks(resp)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// decodeChunks keeps the first hit of every score chunk
func decodeChunks(resp chunkSearchResponse) (domain.ChunkResults, error) {
	if resp.ScoreChunks == nil {
		return nil, &DecodeError{Err: errors.New("response has no score_chunks")}
	}

	results := make(domain.ChunkResults, 0, len(*resp.ScoreChunks))
	for i, sc := range *resp.ScoreChunks {
		hit, err := sc.first()
		if err != nil {
			return nil, &DecodeError{Err: fmt.Errorf("score chunk %d: %w", i, err)}
		}
		results = append(results, hit)
	}
	return results, nil
}

// NewStrategies returns one strategy per mode sharing client
func NewStrategies(client *Client) map[domain.Mode]Strategy {
	return map[domain.Mode]Strategy{
		domain.ModeGroup: NewGroupStrategy(client),
		domain.ModeChunk: NewChunkStrategy(client),
	}
}
