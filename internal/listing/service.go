// File: internal/listing/service.go
package listing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ldw80203/house-video/internal/common"
	"github.com/ldw80203/house-video/internal/platform/elasticsearch"
)

const searchResultLimit = 50

// Service defines the business logic operations for listings.
type Service interface {
	CreateListing(ctx context.Context, agentID uuid.UUID, req CreateListingRequest) (*Listing, error)
	GetListingByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	UpdateListing(ctx context.Context, id uuid.UUID, editorID uuid.UUID, req UpdateListingRequest) (*Listing, error)
	DeleteListing(ctx context.Context, id uuid.UUID, editorID uuid.UUID) error
	// ListPublished returns published listings newest first. A zero Filter
	// returns the full published set.
	ListPublished(ctx context.Context, f Filter) ([]Listing, error)
	ListByAgent(ctx context.Context, agentID uuid.UUID) ([]Listing, error)
	SearchListings(ctx context.Context, query string) ([]Listing, error)
	SearchEnabled() bool
	// UnpublishExpired unpublishes published listings older than the lifespan.
	UnpublishExpired(ctx context.Context, lifespanDays int) (int64, error)
	// SyncAllToSearch reindexes every listing; used by the sync subcommand.
	SyncAllToSearch(ctx context.Context) (int, error)
}

// ServiceImplementation provides the implementation for the listing Service.
type ServiceImplementation struct {
	repo    Repository
	indexer *searchIndexer
	logger  *zap.Logger
}

// NewService creates a new listing service.
func NewService(repo Repository, es *elasticsearch.ESClientWrapper, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:    repo,
		indexer: newSearchIndexer(es, logger.Named("listing_indexer")),
		logger:  logger,
	}
}

var _ Service = (*ServiceImplementation)(nil)

func validateVocabulary(district, roomType *string) error {
	if district != nil && !IsValidDistrict(*district) {
		return common.NewValidationAPIError(map[string]string{
			"district": fmt.Sprintf("Unknown district %q.", *district),
		})
	}
	if roomType != nil && !IsValidRoomType(*roomType) {
		return common.NewValidationAPIError(map[string]string{
			"room_type": fmt.Sprintf("Unknown room type %q.", *roomType),
		})
	}
	return nil
}

// CreateListing persists a new published listing. The unit price is derived
// here and never accepted from the caller.
func (s *ServiceImplementation) CreateListing(ctx context.Context, agentID uuid.UUID, req CreateListingRequest) (*Listing, error) {
	if err := validateVocabulary(&req.District, &req.RoomType); err != nil {
		return nil, err
	}

	l := &Listing{
		AgentID:       agentID,
		Title:         req.Title,
		VideoURL:      req.VideoURL,
		CommunityName: req.CommunityName,
		District:      req.District,
		Address:       req.Address,
		Price:         req.Price,
		Size:          req.Size,
		PricePerPing:  DeriveUnitPrice(req.Price, req.Size),
		RoomType:      req.RoomType,
		Phone:         req.Phone,
		LineID:        req.LineID,
		IsPublished:   true,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("Failed to create listing", zap.String("agentID", agentID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Failed to create listing.")
	}

	if err := s.indexer.Index(ctx, l); err != nil {
		// The row is the source of truth; a missed index write is recovered
		// by the sync subcommand.
		s.logger.Error("Failed to index created listing", zap.String("listingID", l.ID.String()), zap.Error(err))
	}

	s.logger.Info("Listing created",
		zap.String("listingID", l.ID.String()),
		zap.String("agentID", agentID.String()),
		zap.String("district", l.District))
	return l, nil
}

func (s *ServiceImplementation) GetListingByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateListing applies a partial edit. Touching price or size recomputes the
// stored unit price from the resulting pair.
func (s *ServiceImplementation) UpdateListing(ctx context.Context, id uuid.UUID, editorID uuid.UUID, req UpdateListingRequest) (*Listing, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.AgentID != editorID {
		return nil, common.ErrForbidden.WithDetails("Only the listing agent can modify this listing.")
	}
	if err := validateVocabulary(req.District, req.RoomType); err != nil {
		return nil, err
	}

	if req.Title != nil {
		l.Title = *req.Title
	}
	if req.VideoURL != nil {
		l.VideoURL = *req.VideoURL
	}
	if req.CommunityName != nil {
		l.CommunityName = req.CommunityName
	}
	if req.District != nil {
		l.District = *req.District
	}
	if req.Address != nil {
		l.Address = *req.Address
	}
	if req.Price != nil {
		l.Price = *req.Price
	}
	if req.Size != nil {
		l.Size = *req.Size
	}
	if req.Price != nil || req.Size != nil {
		l.PricePerPing = DeriveUnitPrice(l.Price, l.Size)
	}
	if req.RoomType != nil {
		l.RoomType = *req.RoomType
	}
	if req.Phone != nil {
		l.Phone = *req.Phone
	}
	if req.LineID != nil {
		l.LineID = req.LineID
	}
	if req.IsPublished != nil {
		l.IsPublished = *req.IsPublished
	}

	if err := s.repo.Update(ctx, l); err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return nil, err
		}
		s.logger.Error("Failed to update listing", zap.String("listingID", id.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Failed to update listing.")
	}

	if err := s.indexer.Index(ctx, l); err != nil {
		s.logger.Error("Failed to reindex updated listing", zap.String("listingID", id.String()), zap.Error(err))
	}

	s.logger.Info("Listing updated", zap.String("listingID", id.String()))
	return l, nil
}

func (s *ServiceImplementation) DeleteListing(ctx context.Context, id uuid.UUID, editorID uuid.UUID) error {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if l.AgentID != editorID {
		return common.ErrForbidden.WithDetails("Only the listing agent can delete this listing.")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return err
		}
		s.logger.Error("Failed to delete listing", zap.String("listingID", id.String()), zap.Error(err))
		return common.ErrInternalServer.WithDetails("Failed to delete listing.")
	}

	if err := s.indexer.Remove(ctx, id); err != nil {
		s.logger.Error("Failed to remove deleted listing from index", zap.String("listingID", id.String()), zap.Error(err))
	}

	s.logger.Info("Listing deleted", zap.String("listingID", id.String()))
	return nil
}

func (s *ServiceImplementation) ListPublished(ctx context.Context, f Filter) ([]Listing, error) {
	listings, err := s.repo.ListPublished(ctx, f)
	if err != nil {
		s.logger.Error("Failed to list published listings", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Failed to fetch listings.")
	}
	return listings, nil
}

func (s *ServiceImplementation) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]Listing, error) {
	listings, err := s.repo.ListByAgent(ctx, agentID)
	if err != nil {
		s.logger.Error("Failed to list agent listings", zap.String("agentID", agentID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Failed to fetch listings.")
	}
	return listings, nil
}

// SearchEnabled reports whether keyword search is configured.
func (s *ServiceImplementation) SearchEnabled() bool {
	return s.indexer.es.Enabled()
}

// SearchListings resolves a keyword query against the search index and loads
// the matching rows, preserving relevance order.
func (s *ServiceImplementation) SearchListings(ctx context.Context, query string) ([]Listing, error) {
	if !s.SearchEnabled() {
		return nil, common.ErrServiceUnavailable.WithDetails("Keyword search is not configured.")
	}

	ids, err := s.indexer.Search(ctx, query, searchResultLimit)
	if err != nil {
		s.logger.Error("Listing search failed", zap.String("query", query), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Search failed.")
	}
	if len(ids) == 0 {
		return []Listing{}, nil
	}

	rows, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to load search results", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Search failed.")
	}

	byID := make(map[uuid.UUID]*Listing, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	ordered := make([]Listing, 0, len(ids))
	for _, id := range ids {
		if l, ok := byID[id]; ok && l.IsPublished {
			ordered = append(ordered, *l)
		}
	}
	return ordered, nil
}

func (s *ServiceImplementation) UnpublishExpired(ctx context.Context, lifespanDays int) (int64, error) {
	if lifespanDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -lifespanDays)
	count, err := s.repo.UnpublishOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("Failed to unpublish expired listings", zap.Error(err))
		return 0, err
	}
	if count > 0 {
		s.logger.Info("Unpublished expired listings",
			zap.Int64("count", count), zap.Time("cutoff", cutoff))
	}
	return count, nil
}

// SyncAllToSearch walks every listing and reindexes it.
func (s *ServiceImplementation) SyncAllToSearch(ctx context.Context) (int, error) {
	if !s.SearchEnabled() {
		return 0, common.ErrServiceUnavailable.WithDetails("Keyword search is not configured.")
	}

	listings, err := s.repo.ListPublished(ctx, Filter{})
	if err != nil {
		return 0, fmt.Errorf("loading listings for sync: %w", err)
	}

	synced := 0
	for i := range listings {
		if err := s.indexer.Index(ctx, &listings[i]); err != nil {
			s.logger.Error("Failed to sync listing to index",
				zap.String("listingID", listings[i].ID.String()), zap.Error(err))
			continue
		}
		synced++
	}
	s.logger.Info("Listing search sync complete",
		zap.Int("synced", synced), zap.Int("total", len(listings)))
	return synced, nil
}
