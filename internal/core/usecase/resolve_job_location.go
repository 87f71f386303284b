package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/furqan-y-khan/workify/internal/contextkeys"
	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/furqan-y-khan/workify/internal/core/port"
	"github.com/google/uuid"
)

type ResolveJobLocationUseCase struct {
	geocoder port.GeocoderPort
	// может быть nil
	cache port.GeocodeCachePort
	jobs  port.JobRepositoryPort
}

func NewResolveJobLocationUseCase(geocoder port.GeocoderPort, cache port.GeocodeCachePort, jobs port.JobRepositoryPort) *ResolveJobLocationUseCase {
	return &ResolveJobLocationUseCase{geocoder: geocoder, cache: cache, jobs: jobs}
}

func (uc *ResolveJobLocationUseCase) Execute(ctx context.Context, jobID uuid.UUID, address string) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "ResolveJobLocation",
		"job_id":   jobID.String(),
	})

	address = strings.TrimSpace(address)
	if address == "" {
		ucLogger.Debug("Empty address, nothing to resolve", nil)
		return nil
	}

	result, err := uc.lookup(ctx, ucLogger, address)
	if err != nil {
		if errors.Is(err, domain.ErrGeocodeNotFound) {
			// вакансия остается без координат и будет видна только без фильтра расстояния
			ucLogger.Warn("Address not found by geocoder", port.Fields{"address": address})
			return nil
		}
		ucLogger.Error("Geocoding failed", err, port.Fields{"address": address})
		return err
	}

	location, err := result.Location()
	if err != nil {
		ucLogger.Warn("Geocoder returned invalid coordinates", port.Fields{"error": err.Error()})
		return nil
	}

	if err := uc.jobs.UpdateJobLocation(ctx, jobID, location); err != nil {
		ucLogger.Error("Failed to save job location", err, nil)
		return fmt.Errorf("update job %s location: %w", jobID, err)
	}

	ucLogger.Info("Job location resolved", port.Fields{
		"latitude":  result.Latitude,
		"longitude": result.Longitude,
	})
	return nil
}

func (uc *ResolveJobLocationUseCase) lookup(ctx context.Context, logger port.LoggerPort, address string) (*domain.GeocodeResult, error) {
	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, address)
		if err == nil {
			logger.Debug("Geocode cache hit", nil)
			return cached, nil
		}
		if !errors.Is(err, domain.ErrGeocodeCacheMiss) {
			logger.Warn("Geocode cache is unavailable", port.Fields{"error": err.Error()})
		}
	}

	result, err := uc.geocoder.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, address, *result); err != nil {
			logger.Warn("Failed to store geocode result in cache", port.Fields{"error": err.Error()})
		}
	}
	return result, nil
}
