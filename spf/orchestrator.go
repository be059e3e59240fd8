package spf

import (
	"errors"
	"log"

	"spf-automation/lots"
)

// Run executes every identifier through the application in batches and
// returns the artifact paths collected so far, one per completed batch. On
// error the artifacts of the batches that did finish are still returned.
func (d *Driver) Run(items []string) ([]string, error) {
	batches := lots.SplitBatches(items, d.cfg.Processing.MaxLotsPerBatch)
	total := len(batches)
	log.Printf("Orchestrator: %d identifiers in %d batch(es)", len(items), total)

	defer d.CloseAll()

	var artifacts []string
	for i, batch := range batches {
		if d.abortRequested() {
			log.Printf("Orchestrator: abort requested, stopping before batch %d/%d", i+1, total)
			return artifacts, ErrAborted
		}

		artifact, err := d.runBatchOnce(i+1, total, batch, true)
		if errors.Is(err, ErrRelaunchRequired) {
			// The application restarted for an upgrade; the batch did not
			// execute, so run it again against the new instance. A second
			// relaunch signal means the upgrade did not take and is reported
			// as a batch failure, not retried forever.
			log.Printf("Orchestrator: relaunch for batch %d/%d", i+1, total)
			artifact, err = d.runBatchOnce(i+1, total, batch, false)
		}
		if err != nil {
			return artifacts, err
		}
		artifacts = append(artifacts, artifact)
		log.Printf("Orchestrator: batch %d/%d done (%d identifiers)", i+1, total, len(batch))
	}
	return artifacts, nil
}

// runBatchOnce runs one batch end to end. Failures are wrapped with the
// batch position and the stage they occurred in. With retryAllowed set,
// ErrRelaunchRequired passes through unwrapped so the caller can retry;
// otherwise it is wrapped like any other failure.
func (d *Driver) runBatchOnce(batch, total int, items []string, retryAllowed bool) (string, error) {
	start := d.clock.Now()
	fail := func(stage string, err error) (string, error) {
		return "", &BatchError{
			Batch:   batch,
			Total:   total,
			Stage:   stage,
			Elapsed: d.clock.Now().Sub(start),
			Err:     err,
		}
	}
	relaunch := func(stage string) (string, error) {
		if retryAllowed {
			return "", ErrRelaunchRequired
		}
		return fail(stage, ErrRelaunchRequired)
	}

	// Update dialogs can appear while the application is still starting, so
	// the window is only considered acquired once a scan before and after
	// comes back clean.
	outcome, err := d.ScanAndResolve()
	if err != nil {
		return fail("pre-acquire-scan", err)
	}
	if outcome == ScanRelaunchRequired {
		return relaunch("pre-acquire-scan")
	}

	if err := d.EnsureWindow(); err != nil {
		return fail("acquire-window", err)
	}

	outcome, err = d.ScanAndResolve()
	if err != nil {
		return fail("post-acquire-scan", err)
	}
	if outcome == ScanRelaunchRequired {
		return relaunch("post-acquire-scan")
	}

	if err := d.PrepareOutput(); err != nil {
		return fail("prepare-output", err)
	}
	if err := d.Submit(items); err != nil {
		return fail("submit", err)
	}
	if err := d.AwaitOutput(); err != nil {
		return fail("await-output", err)
	}
	artifact, err := d.CollectOutput(batch, total)
	if err != nil {
		return fail("collect-output", err)
	}
	return artifact, nil
}
