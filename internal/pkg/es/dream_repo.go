package es

import (
	"Dreamscape/internal/model"
	"Dreamscape/internal/pkg/util"
	"context"
	"errors"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/goccy/go-json"
)

const MaxSearchDepth = 400

type DreamRepo interface {
	IndexDream(ctx context.Context, dream *model.Dream) error
	DeleteDream(ctx context.Context, id uint64) error
	SearchDreamIDs(ctx context.Context, keyword string, from, size int) ([]uint64, error)
}

type DreamRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewDreamRepo(client *elasticsearch.TypedClient) DreamRepo {
	return &DreamRepoImpl{client: client}
}

// NewDreamDocument 由数据库记录构造检索文档
func NewDreamDocument(dream *model.Dream) *DreamES {
	return &DreamES{
		ID:            dream.ID,
		UserID:        dream.UserID,
		Title:         dream.Title,
		Content:       dream.Content,
		SearchTitle:   util.ToSimplified(dream.Title),
		SearchContent: util.ToSimplified(dream.Content),
		DreamDate:     dream.DreamDate,
		CreatedAt:     dream.CreatedAt,
		UpdatedAt:     dream.UpdatedAt,
	}
}

func (s *DreamRepoImpl) IndexDream(ctx context.Context, dream *model.Dream) error {
	docID := strconv.FormatUint(dream.ID, 10)

	_, err := s.client.Index(DreamIndex).
		Id(docID).
		Document(NewDreamDocument(dream)).
		Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == ConflictCode {
				return nil
			}
		}
		return err
	}

	return nil
}

func (s *DreamRepoImpl) DeleteDream(ctx context.Context, id uint64) error {
	docID := strconv.FormatUint(id, 10)

	_, err := s.client.Delete(DreamIndex, docID).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				return nil
			}
		}
		return err
	}

	return nil
}

// SearchDreamIDs 按相关度返回命中的梦境ID，详情由数据库回表
func (s *DreamRepoImpl) SearchDreamIDs(ctx context.Context, keyword string, from, size int) ([]uint64, error) {
	if from >= MaxSearchDepth {
		return []uint64{}, nil
	}
	if from+size > MaxSearchDepth {
		size = MaxSearchDepth - from
	}

	resp, err := s.client.Search().
		Index(DreamIndex).
		Query(&types.Query{
			MultiMatch: &types.MultiMatchQuery{
				Query:  util.ToSimplified(keyword),
				Fields: []string{"search_title^2", "search_content"},
			},
		}).
		Sort(
			types.SortOptions{SortOptions: map[string]types.FieldSort{
				"_score": {Order: &sortorder.Desc},
			}},
			types.SortOptions{SortOptions: map[string]types.FieldSort{
				"created_at": {Order: &sortorder.Desc},
			}},
		).
		Source_(&types.SourceFilter{Includes: []string{"id"}}).
		From(from).
		Size(size).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var doc DreamES
		if err = json.Unmarshal(hit.Source_, &doc); err != nil {
			continue
		}
		ids = append(ids, doc.ID)
	}
	return ids, nil
}
