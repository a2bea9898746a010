package control

import (
	"fmt"
	"log/slog"

	"abrengine/internal/metrics"
)

// SaveState writes the forecaster model blob and the viewing history to the
// configured store. With no store configured it is a no-op.
func (c *Controller) SaveState() error {
	if c.store == nil {
		return nil
	}

	c.mu.Lock()
	blob, err := c.forecaster.ModelState()
	records := c.viewing.Records()
	c.mu.Unlock()
	if err != nil {
		metrics.StateSaveFailuresTotal.Inc()
		return fmt.Errorf("serialize model: %w", err)
	}

	if err := c.store.SaveModel(blob); err != nil {
		metrics.StateSaveFailuresTotal.Inc()
		return fmt.Errorf("save model: %w", err)
	}
	if err := c.store.SaveViewing(records); err != nil {
		metrics.StateSaveFailuresTotal.Inc()
		return fmt.Errorf("save viewing history: %w", err)
	}
	metrics.StateSavesTotal.Inc()
	return nil
}

// LoadState restores previously saved state. Missing state is a cold start
// and not an error; a corrupt model blob is logged and discarded so the
// controller still comes up, just untrained.
func (c *Controller) LoadState() error {
	if c.store == nil {
		return nil
	}

	blob, ok, err := c.store.LoadModel()
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	if ok {
		c.mu.Lock()
		restoreErr := c.forecaster.RestoreModelState(blob)
		c.mu.Unlock()
		if restoreErr != nil {
			c.logger.Warn("stored model state rejected, starting untrained",
				slog.String("error", restoreErr.Error()),
			)
		} else {
			c.logger.Info("model state restored", slog.Int("bytes", len(blob)))
		}
	}

	records, ok, err := c.store.LoadViewing()
	if err != nil {
		return fmt.Errorf("load viewing history: %w", err)
	}
	if ok {
		c.mu.Lock()
		c.viewing.Extend(records)
		c.mu.Unlock()
		c.logger.Info("viewing history restored", slog.Int("records", len(records)))
	}
	return nil
}
