package integration

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/integration"
	"github.com/storefront/backend/internal/domain/shared"
)

const (
	defaultWorkers        = 4
	defaultPublishTimeout = 10 * time.Second
)

// SyncService fans a batch of products out to a batch of marketplace
// connectors and aggregates per-product-per-marketplace outcomes. One
// pairing's failure never aborts the rest of the fan-out.
type SyncService struct {
	productRepo    catalog.ProductRepository
	connectors     *integration.Registry
	logger         *zap.Logger
	workers        int
	publishTimeout time.Duration
}

// NewSyncService creates a new SyncService
func NewSyncService(productRepo catalog.ProductRepository, connectors *integration.Registry, logger *zap.Logger) *SyncService {
	return &SyncService{
		productRepo:    productRepo,
		connectors:     connectors,
		logger:         logger,
		workers:        defaultWorkers,
		publishTimeout: defaultPublishTimeout,
	}
}

// SetWorkers bounds the number of concurrent publish calls
func (s *SyncService) SetWorkers(workers int) {
	if workers > 0 {
		s.workers = workers
	}
}

// SetPublishTimeout overrides the per-call deadline on publish
func (s *SyncService) SetPublishTimeout(timeout time.Duration) {
	if timeout > 0 {
		s.publishTimeout = timeout
	}
}

type publishJob struct {
	productID   string
	marketplace string
	connector   integration.Connector
	listing     integration.Listing
}

type publishResult struct {
	productID   string
	marketplace string
	outcome     SyncOutcome
}

// SyncWithMarketplaces publishes every requested product to every
// requested marketplace. An unknown product id yields a single error
// entry and skips its per-marketplace attempts; an unknown marketplace
// name yields an unsupported outcome for that pairing only. The report
// always covers every requested combination; no overall verdict is
// computed.
func (s *SyncService) SyncWithMarketplaces(ctx context.Context, req SyncRequest) (SyncReport, error) {
	if len(req.ProductIDs) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "At least one product id is required")
	}
	if len(req.Marketplaces) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "At least one marketplace is required")
	}

	products, err := s.productRepo.FindByIDs(ctx, req.ProductIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	report := make(SyncReport, len(req.ProductIDs))
	jobs := make([]publishJob, 0, len(req.ProductIDs)*len(req.Marketplaces))

	for _, productID := range req.ProductIDs {
		key := productID.String()
		if _, seen := report[key]; seen {
			continue
		}

		product, ok := byID[productID]
		if !ok {
			report[key] = ProductSyncResult{Status: OutcomeError, Message: "not found"}
			continue
		}

		result := ProductSyncResult{Marketplaces: make(map[string]SyncOutcome, len(req.Marketplaces))}
		listing := listingFromProduct(product)
		for _, name := range req.Marketplaces {
			connector, err := s.connectors.Resolve(integration.MarketplaceCode(name))
			if err != nil {
				result.Marketplaces[name] = SyncOutcome{Status: OutcomeError, Message: "unsupported"}
				continue
			}
			jobs = append(jobs, publishJob{
				productID:   key,
				marketplace: name,
				connector:   connector,
				listing:     listing,
			})
		}
		report[key] = result
	}

	for res := range s.dispatch(ctx, jobs) {
		report[res.productID].Marketplaces[res.marketplace] = res.outcome
	}

	return report, nil
}

// dispatch runs the publish jobs through a bounded worker pool and
// returns a channel that yields every result before closing
func (s *SyncService) dispatch(ctx context.Context, jobs []publishJob) <-chan publishResult {
	results := make(chan publishResult, len(jobs))
	if len(jobs) == 0 {
		close(results)
		return results
	}

	workers := s.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	jobCh := make(chan publishJob)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				results <- publishResult{
					productID:   job.productID,
					marketplace: job.marketplace,
					outcome:     s.publish(ctx, job),
				}
			}
		}()
	}

	go func() {
		for _, job := range jobs {
			jobCh <- job
		}
		close(jobCh)
		wg.Wait()
		close(results)
	}()

	return results
}

func (s *SyncService) publish(ctx context.Context, job publishJob) SyncOutcome {
	publishCtx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()

	result, err := job.connector.Publish(publishCtx, job.listing)
	if err != nil {
		s.logger.Warn("marketplace publish failed",
			zap.String("product_id", job.productID),
			zap.String("marketplace", job.marketplace),
			zap.Error(err))
		return SyncOutcome{Status: OutcomeError, Message: err.Error()}
	}

	return SyncOutcome{Status: OutcomeSuccess, ExternalID: result.ExternalID}
}

// FetchMarketplaceOrders pulls a connector's external orders placed
// since the given time. Unlike the publish fan-out this is a single
// connector call, so a connector failure surfaces to the caller.
func (s *SyncService) FetchMarketplaceOrders(ctx context.Context, marketplace string, since *time.Time) ([]ExternalOrderResponse, error) {
	connector, err := s.connectors.Resolve(integration.MarketplaceCode(marketplace))
	if err != nil {
		return nil, err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()

	orders, err := connector.FetchOrders(fetchCtx, since)
	if err != nil {
		s.logger.Warn("marketplace order fetch failed",
			zap.String("marketplace", marketplace),
			zap.Error(err))
		return nil, shared.NewDomainError("MARKETPLACE_UNAVAILABLE", "Marketplace did not return orders")
	}

	responses := make([]ExternalOrderResponse, len(orders))
	for i, order := range orders {
		responses[i] = ExternalOrderResponse{
			ExternalID:     order.ExternalID,
			ExternalStatus: order.ExternalStatus,
			Total:          order.Total,
			PlacedAt:       order.PlacedAt,
		}
	}
	return responses, nil
}
