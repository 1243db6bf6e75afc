package service

import (
	"context"

	"go.uber.org/zap"
	"leadtracker/internal/log"
	"leadtracker/internal/model"
)

// Detector composes a Fetcher with ExtractForms. Calls share no mutable
// state and may run concurrently.
type Detector struct {
	fetcher Fetcher
}

func NewDetector(fetcher Fetcher) *Detector {
	return &Detector{fetcher: fetcher}
}

// DetectFromURL fetches targetURL and extracts its forms, using targetURL as
// the base for relative actions. Every failure is a *DetectionError.
func (d *Detector) DetectFromURL(ctx context.Context, targetURL string) ([]model.DetectedForm, error) {
	markup, err := d.fetcher.Fetch(ctx, targetURL)
	if err != nil {
		err = asDetectionError(err, OpFetch, targetURL)
		observeDetection(sourceURL, 0, err)
		return nil, err
	}

	forms, err := ExtractForms(markup, targetURL)
	if err != nil {
		err = asDetectionError(err, OpParse, targetURL)
		observeDetection(sourceURL, 0, err)
		return nil, err
	}

	observeDetection(sourceURL, len(forms), nil)
	log.Logger.Info("detected forms",
		zap.String("url", targetURL),
		zap.Int("forms", len(forms)),
	)
	return forms, nil
}

// DetectFromMarkup extracts forms from markup the caller already holds.
func (d *Detector) DetectFromMarkup(markup, baseURL string) ([]model.DetectedForm, error) {
	forms, err := ExtractForms(markup, baseURL)
	observeDetection(sourceMarkup, len(forms), err)
	if err != nil {
		return nil, err
	}

	log.Logger.Debug("extracted forms from markup",
		zap.String("url", baseURL),
		zap.Int("content_length", len(markup)),
		zap.Int("forms", len(forms)),
	)
	return forms, nil
}
