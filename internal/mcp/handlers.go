package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/saccadegen/internal/constants"
	"github.com/nvandessel/saccadegen/internal/eval"
	"github.com/nvandessel/saccadegen/internal/export"
	"github.com/nvandessel/saccadegen/internal/pathutil"
	"github.com/nvandessel/saccadegen/internal/ratelimit"
	"github.com/nvandessel/saccadegen/internal/sanitize"
	"github.com/nvandessel/saccadegen/internal/scenario"
	"github.com/nvandessel/saccadegen/internal/simulator"
	"github.com/nvandessel/saccadegen/internal/store"
	"github.com/nvandessel/saccadegen/internal/transform"
)

// defaultRunsLimit bounds saccade_runs listings when no limit is given.
const defaultRunsLimit = 20

// registerTools registers all saccade MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "saccade_encode",
		Description: "Encode a 2-D saccade displacement into the stimulus amplitudes of the left, right, up and down channels",
	}, s.handleSaccadeEncode)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "saccade_decode",
		Description: "Decode one channel's spike train into a saccade magnitude per stimulation onset",
	}, s.handleSaccadeDecode)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "saccade_evaluate",
		Description: "Run an encode, simulate, decode evaluation on the calibrated backend and report the RMSE",
	}, s.handleSaccadeEvaluate)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "saccade_runs",
		Description: "List stored evaluation runs, or show one run with its per-event results",
	}, s.handleSaccadeRuns)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "saccade_export",
		Description: "Write a stored run's per-event table to a TSV, Arrow IPC or JSON file inside the project root",
	}, s.handleSaccadeExport)
}

// handleSaccadeEncode implements the saccade_encode tool.
func (s *Server) handleSaccadeEncode(ctx context.Context, req *sdk.CallToolRequest, args SaccadeEncodeInput) (_ *sdk.CallToolResult, _ SaccadeEncodeOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("saccade_encode", start, retErr, "", summarizeToolParams(map[string]interface{}{
			"dx": args.DX, "dy": args.DY, "maximal_saccade_size": args.MaximalSaccadeSize,
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "saccade_encode"); err != nil {
		return nil, SaccadeEncodeOutput{}, err
	}

	maxSize := s.settings.Encoding.MaximalSaccadeSize
	if args.MaximalSaccadeSize > 0 {
		maxSize = args.MaximalSaccadeSize
	}

	a := s.settings.Calibration.Encode(transform.Vec2{X: args.DX, Y: args.DY}, maxSize)
	return nil, SaccadeEncodeOutput{Left: a.Left, Right: a.Right, Up: a.Up, Down: a.Down}, nil
}

// handleSaccadeDecode implements the saccade_decode tool.
func (s *Server) handleSaccadeDecode(ctx context.Context, req *sdk.CallToolRequest, args SaccadeDecodeInput) (_ *sdk.CallToolResult, _ SaccadeDecodeOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("saccade_decode", start, retErr, "", summarizeToolParams(map[string]interface{}{
			"spikes": args.Spikes, "onsets": args.Onsets, "variant": args.Variant,
			"population_size": args.PopulationSize, "maximal_saccade_size": args.MaximalSaccadeSize,
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "saccade_decode"); err != nil {
		return nil, SaccadeDecodeOutput{}, err
	}

	variant := s.settings.Decoding.Variant
	if args.Variant != "" {
		variant = constants.Variant(args.Variant)
		if !variant.Valid() {
			return nil, SaccadeDecodeOutput{}, fmt.Errorf("invalid variant: %s (valid: evaluation, single-side)", args.Variant)
		}
	}
	pop := s.settings.Decoding.PopulationSize
	if args.PopulationSize > 0 {
		pop = args.PopulationSize
	}

	dec := transform.NewDecoder(s.settings.Calibration, transform.NormalizationFor(variant, pop))
	dec.Window = s.settings.Decoding.Window
	dec.MaximalSaccadeSize = s.settings.Encoding.MaximalSaccadeSize
	if args.MaximalSaccadeSize > 0 {
		dec.MaximalSaccadeSize = args.MaximalSaccadeSize
	}
	if err := dec.Validate(); err != nil {
		return nil, SaccadeDecodeOutput{}, fmt.Errorf("invalid decoder: %w", err)
	}

	counts := dec.Counts(args.Spikes, args.Onsets)
	out := SaccadeDecodeOutput{
		Counts:     counts,
		Magnitudes: make([]float64, len(counts)),
	}
	for i, c := range counts {
		out.Magnitudes[i] = dec.Magnitude(c)
	}
	return nil, out, nil
}

// handleSaccadeEvaluate implements the saccade_evaluate tool.
func (s *Server) handleSaccadeEvaluate(ctx context.Context, req *sdk.CallToolRequest, args SaccadeEvaluateInput) (_ *sdk.CallToolResult, _ SaccadeEvaluateOutput, retErr error) {
	start := time.Now()
	var runID string
	defer func() {
		s.auditTool("saccade_evaluate", start, retErr, runID, summarizeToolParams(map[string]interface{}{
			"scenario": args.Scenario, "stim_times": args.StimTimes, "targets": args.Targets,
			"points": args.Points, "jitter": args.Jitter, "seed": args.Seed, "no_save": args.NoSave,
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "saccade_evaluate"); err != nil {
		return nil, SaccadeEvaluateOutput{}, err
	}

	sc := scenario.Default()
	if len(args.StimTimes) > 0 || len(args.Targets) > 0 || len(args.Points) > 0 {
		sc = &scenario.Scenario{
			Name:      "adhoc",
			StimTimes: args.StimTimes,
			Targets:   args.Targets,
			Points:    args.Points,
		}
	}
	if args.Scenario != "" {
		sc.Name = sanitize.NameOr(args.Scenario, sc.Name)
	}
	if args.MaximalSaccadeSize > 0 {
		sc.MaximalSaccadeSize = args.MaximalSaccadeSize
	}
	if err := sc.Validate(); err != nil {
		return nil, SaccadeEvaluateOutput{}, fmt.Errorf("invalid scenario: %w", err)
	}

	opts := s.settings.SimulatorOptions()
	if args.Jitter > 0 {
		opts.Jitter = args.Jitter
	}
	if args.Seed != 0 {
		opts.Seed = args.Seed
	}
	sim, err := simulator.New(simulator.BackendCalibrated, opts)
	if err != nil {
		return nil, SaccadeEvaluateOutput{}, err
	}

	evalCfg := s.settings.EvalConfig()
	evalCfg.Logger = s.logger
	evalCfg.Events = s.events
	if sc.MaximalSaccadeSize > 0 {
		evalCfg.Decoder.MaximalSaccadeSize = sc.MaximalSaccadeSize
	}
	res, err := eval.NewEvaluator(sim, evalCfg).Evaluate(ctx, sc.Request())
	if err != nil {
		return nil, SaccadeEvaluateOutput{}, fmt.Errorf("evaluation failed: %w", err)
	}

	if !args.NoSave {
		run := store.NewRun(sc.Name, simulator.BackendCalibrated, evalCfg, res)
		runID, err = s.store.SaveRun(ctx, run)
		if err != nil {
			return nil, SaccadeEvaluateOutput{}, fmt.Errorf("failed to save run: %w", err)
		}
	}

	return nil, SaccadeEvaluateOutput{
		RunID:   runID,
		RMSE:    res.RMSE,
		Horizon: res.Horizon,
		Decoded: res.Decoded(),
		Events:  len(res.Onsets),
	}, nil
}

// handleSaccadeRuns implements the saccade_runs tool.
func (s *Server) handleSaccadeRuns(ctx context.Context, req *sdk.CallToolRequest, args SaccadeRunsInput) (_ *sdk.CallToolResult, _ SaccadeRunsOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("saccade_runs", start, retErr, args.ID, summarizeToolParams(map[string]interface{}{
			"limit": args.Limit,
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "saccade_runs"); err != nil {
		return nil, SaccadeRunsOutput{}, err
	}

	if args.ID != "" {
		run, err := s.store.GetRun(ctx, args.ID)
		if errors.Is(err, store.ErrRunNotFound) {
			return nil, SaccadeRunsOutput{}, fmt.Errorf("run not found: %s", args.ID)
		}
		if err != nil {
			return nil, SaccadeRunsOutput{}, fmt.Errorf("failed to get run: %w", err)
		}
		return nil, SaccadeRunsOutput{Run: runDetail(run), Count: 1}, nil
	}

	limit := args.Limit
	if limit <= 0 {
		limit = defaultRunsLimit
	}
	runs, err := s.store.ListRuns(ctx, limit)
	if err != nil {
		return nil, SaccadeRunsOutput{}, fmt.Errorf("failed to list runs: %w", err)
	}

	items := make([]RunListItem, 0, len(runs))
	for i := range runs {
		items = append(items, runListItem(&runs[i]))
	}
	return nil, SaccadeRunsOutput{Runs: items, Count: len(items)}, nil
}

// handleSaccadeExport implements the saccade_export tool.
func (s *Server) handleSaccadeExport(ctx context.Context, req *sdk.CallToolRequest, args SaccadeExportInput) (_ *sdk.CallToolResult, _ SaccadeExportOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("saccade_export", start, retErr, args.ID, summarizeToolParams(map[string]interface{}{
			"path": pathutil.RedactPath(args.Path),
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "saccade_export"); err != nil {
		return nil, SaccadeExportOutput{}, err
	}

	if args.ID == "" {
		return nil, SaccadeExportOutput{}, fmt.Errorf("id is required")
	}
	path, err := pathutil.Resolve(s.root, args.Path)
	if err != nil {
		return nil, SaccadeExportOutput{}, fmt.Errorf("invalid path: %w", err)
	}
	if err := pathutil.ValidatePath(path, []string{s.root}); err != nil {
		return nil, SaccadeExportOutput{}, err
	}
	format, err := export.FormatFromPath(path)
	if err != nil {
		return nil, SaccadeExportOutput{}, err
	}

	run, err := s.store.GetRun(ctx, args.ID)
	if errors.Is(err, store.ErrRunNotFound) {
		return nil, SaccadeExportOutput{}, fmt.Errorf("run not found: %s", args.ID)
	}
	if err != nil {
		return nil, SaccadeExportOutput{}, fmt.Errorf("failed to get run: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, SaccadeExportOutput{}, fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := export.WriteFile(path, run); err != nil {
		return nil, SaccadeExportOutput{}, err
	}

	return nil, SaccadeExportOutput{Path: path, Format: string(format), Events: len(run.Events)}, nil
}

func runListItem(run *store.Run) RunListItem {
	return RunListItem{
		ID:        run.ID,
		Scenario:  run.Scenario,
		Backend:   run.Backend,
		RMSE:      run.RMSE,
		CreatedAt: run.CreatedAt,
	}
}

func runDetail(run *store.Run) *RunDetail {
	d := &RunDetail{
		RunListItem:        runListItem(run),
		RateScale:          run.RateScale,
		PopulationSize:     run.PopulationSize,
		MaximalSaccadeSize: run.MaximalSaccadeSize,
		Events:             make([]RunEvent, len(run.Events)),
	}
	for i, e := range run.Events {
		d.Events[i] = RunEvent{
			Onset:   e.Onset,
			Target:  transform.Vec2{X: e.TargetX, Y: e.TargetY},
			Decoded: transform.Vec2{X: e.DecodedX, Y: e.DecodedY},
		}
	}
	return d
}
