package scenpack

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/svandenberg/scenpack/pkg/scenpack/frame"
	"github.com/svandenberg/scenpack/pkg/scenpack/packs"
	"github.com/svandenberg/scenpack/pkg/scenpack/scenario"
	"github.com/svandenberg/scenpack/pkg/scenpack/xlsxio"
)

// companionSuffix is appended to the main filename's stem to name the
// output curves workbook.
const companionSuffix = "_output_curves"

// Packer orchestrates the workbook exchange: one pack per capability,
// membership kept synchronized across them.
type Packer struct {
	log *zap.Logger

	inputs    *packs.InputsPack
	sortables *packs.SortablesPack
	curves    *packs.CustomCurvesPack
	output    *packs.OutputCurvesPack
}

// NewPacker creates an empty packer. A nil logger disables logging.
func NewPacker(log *zap.Logger) *Packer {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Packer{
		log:       log,
		inputs:    packs.NewInputsPack(log),
		sortables: packs.NewSortablesPack(log),
		curves:    packs.NewCustomCurvesPack(log),
		output:    packs.NewOutputCurvesPack(log),
	}
	for _, pk := range p.packs() {
		pk.SetLabeler((*scenario.Scenario).Label)
	}
	return p
}

func (p *Packer) packs() []*packs.Pack {
	return []*packs.Pack{p.inputs.Pack, p.sortables.Pack, p.curves.Pack, p.output.Pack}
}

// Add registers scenarios with every managed pack.
func (p *Packer) Add(scenarios ...*scenario.Scenario) {
	for _, pk := range p.packs() {
		pk.Add(scenarios...)
	}
}

// Discard removes a scenario from every managed pack.
func (p *Packer) Discard(s *scenario.Scenario) {
	for _, pk := range p.packs() {
		pk.Discard(s)
	}
}

// Clear removes every scenario from every managed pack.
func (p *Packer) Clear() {
	for _, pk := range p.packs() {
		pk.Clear()
	}
}

// Scenarios returns the managed scenarios sorted by id.
func (p *Packer) Scenarios() []*scenario.Scenario {
	return p.inputs.Members()
}

// Len returns the number of managed scenarios.
func (p *Packer) Len() int {
	return p.inputs.Len()
}

// Export writes the full workbook for the managed scenario set. Optional
// sheets follow the resolved configuration; output curves go to a
// companion workbook next to path. Exporting with zero scenarios is the
// single hard failure.
func (p *Packer) Export(path string, opts *ExportOptions) error {
	members := p.Scenarios()
	if len(members) == 0 {
		return ErrNoScenarios
	}
	cfg := resolveConfig(opts, members)

	f := excelize.NewFile()
	defer f.Close()

	main := buildMain(members, cfg, p.sortables.SheetFor, p.curves.SheetFor)
	mainOpts := xlsxio.DefaultSheetOptions()
	mainOpts.ColumnWidth = 24
	mainOpts.IndexWidth = 28
	if _, err := xlsxio.WriteSheet(f, MainSheet, main, mainOpts); err != nil {
		return fmt.Errorf("write %s: %w", MainSheet, err)
	}

	if cfg.Inputs {
		if err := p.exportInputs(f, cfg); err != nil {
			return err
		}
	}
	if cfg.Sortables {
		p.exportScenarioSheets(f, members, p.sortables.SheetFor, p.sortables.ScenarioFrame)
	}
	if cfg.CustomCurves {
		p.exportScenarioSheets(f, members, p.curves.SheetFor, p.curves.ScenarioFrame)
	}
	if cfg.Queries {
		if err := p.exportQueries(f, members); err != nil {
			return err
		}
	}

	xlsxio.DropDefaultSheet(f)
	if err := f.SaveAs(path); err != nil {
		return err
	}

	if cfg.OutputCurves() {
		written, err := p.output.WriteCompanion(CompanionPath(path), cfg.Carriers, xlsxio.DefaultSheetOptions())
		if err != nil {
			return fmt.Errorf("companion workbook: %w", err)
		}
		p.log.Info("companion workbook written",
			zap.String("path", CompanionPath(path)), zap.Int("sheets", written))
	}
	return nil
}

// CompanionPath derives the output curves workbook path from the main
// workbook path: the stem plus a fixed suffix.
func CompanionPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + companionSuffix + ext
}

func (p *Packer) exportInputs(f *excelize.File, cfg ExportConfig) error {
	var fr *frame.Frame
	if cfg.Defaults || cfg.Bounds {
		fr = p.inputs.CombinedFrame(cfg.Defaults, cfg.Bounds)
	} else {
		fr = p.inputs.ValuesFrame()
	}
	if fr.Empty() {
		return nil
	}
	opts := xlsxio.DefaultSheetOptions()
	opts.IndexName = packs.InputKeyHeader
	opts.IndexWidth = 40
	if _, err := xlsxio.WriteSheet(f, p.inputs.SheetName(), fr, opts); err != nil {
		return fmt.Errorf("write %s: %w", p.inputs.SheetName(), err)
	}
	return nil
}

// exportScenarioSheets writes one sheet per scenario that has a fragment.
// A failing scenario is logged and skipped; the rest still export.
func (p *Packer) exportScenarioSheets(f *excelize.File, members []*scenario.Scenario,
	sheetFor func(*scenario.Scenario) string,
	build func(*scenario.Scenario) (*frame.Frame, error)) {

	for _, s := range members {
		fr, err := build(s)
		if err != nil {
			p.log.Warn("scenario sheet skipped",
				zap.String("scenario", s.Identifier()), zap.Error(err))
			continue
		}
		if fr.Empty() {
			continue
		}
		if _, err := xlsxio.WriteSheet(f, sheetFor(s), fr, xlsxio.DefaultSheetOptions()); err != nil {
			p.log.Warn("scenario sheet skipped",
				zap.String("scenario", s.Identifier()), zap.Error(err))
		}
	}
}

func (p *Packer) exportQueries(f *excelize.File, members []*scenario.Scenario) error {
	qp := packs.NewQueryPack(p.log)
	qp.Add(members...)

	keys := qp.KeysFrame()
	if keys.Empty() {
		return nil
	}
	opts := xlsxio.SheetOptions{BoldHeaders: true, ColumnWidth: 48}
	if _, err := xlsxio.WriteSheet(f, packs.QueriesSheet, keys, opts); err != nil {
		return fmt.Errorf("write %s: %w", packs.QueriesSheet, err)
	}

	results := qp.ResultsFrame()
	if !results.Empty() {
		resOpts := xlsxio.DefaultSheetOptions()
		resOpts.IndexWidth = 48
		if _, err := xlsxio.WriteSheet(f, packs.QueryResultsSheet, results, resOpts); err != nil {
			return fmt.Errorf("write %s: %w", packs.QueryResultsSheet, err)
		}
	}
	return nil
}

// Import parses a workbook back into a packer of scenarios, resolving
// each MAIN column through the service: load by scenario id, else create
// by area and end year, else skip the column with a warning. Every
// failure below a structurally missing MAIN sheet is non-fatal.
func Import(ctx context.Context, path string, svc scenario.Service, opts *ExportOptions, log *zap.Logger) (*Packer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return importWorkbook(ctx, f, svc, opts, log)
}

func importWorkbook(ctx context.Context, f *excelize.File, svc scenario.Service, opts *ExportOptions, log *zap.Logger) (*Packer, error) {
	p := NewPacker(log)

	block, err := xlsxio.ReadSheet(f, MainSheet)
	if err != nil {
		log.Warn("import aborted", zap.Error(&SheetError{Sheet: MainSheet, Err: err}))
		return p, nil
	}
	main := frame.NormalizeSingleHeader(block, nil, false, true)
	cols := parseMain(main, log)
	if len(cols) == 0 {
		log.Warn("import aborted", zap.String("sheet", MainSheet),
			zap.String("reason", "no scenario columns"))
		return p, nil
	}

	byLabel := make(map[string]*scenario.Scenario)
	for _, col := range cols {
		s, err := resolveColumn(ctx, svc, col)
		if err != nil {
			log.Warn("scenario column skipped", zap.String("column", col.label), zap.Error(err))
			continue
		}
		s.ShortName = col.label
		s.Export = col.settings
		s.SortablesSheet = col.sortablesSheet
		s.CustomCurvesSheet = col.customCurvesSheet
		for _, field := range col.meta {
			if field.Key == scenario.FieldScenarioID {
				continue
			}
			s.SetMetadata(field.Key, field.Value)
		}
		byLabel[col.label] = s
		p.Add(s)
	}

	cfg := resolveConfig(opts, p.Scenarios())
	resolve := func(label string) *scenario.Scenario {
		if s, ok := byLabel[label]; ok {
			return s
		}
		return p.inputs.ResolveLabel(label)
	}

	p.importInputs(f, resolve)
	p.importQueries(f)
	if cfg.Sortables {
		p.importSortables(f)
	}
	if cfg.CustomCurves {
		p.importCustomCurves(ctx, f)
	}

	for _, s := range p.Scenarios() {
		s.Warnings.Log(log, s.Identifier()+": ")
	}
	return p, nil
}

// resolveColumn turns one MAIN column into a scenario: load by id when
// present, create by area and end year otherwise.
func resolveColumn(ctx context.Context, svc scenario.Service, col mainColumn) (*scenario.Scenario, error) {
	var meta = make(map[string]any, len(col.meta))
	for _, f := range col.meta {
		meta[f.Key] = f.Value
	}

	if raw, ok := meta[scenario.FieldScenarioID]; ok {
		id, ok := intCell(raw)
		if !ok {
			return nil, &CreationError{Column: col.label, Err: fmt.Errorf("unreadable scenario id %v", raw)}
		}
		s, err := svc.Load(ctx, id)
		if err != nil {
			return nil, &CreationError{Column: col.label, Err: err}
		}
		return s, nil
	}

	area := stringCell(meta[scenario.FieldAreaCode])
	endYear, _ := intCell(meta[scenario.FieldEndYear])
	if area == "" || endYear == 0 {
		return nil, &CreationError{Column: col.label,
			Err: fmt.Errorf("neither scenario id nor area code and end year present")}
	}
	s, err := svc.Create(ctx, area, endYear)
	if err != nil {
		return nil, &CreationError{Column: col.label, Err: err}
	}
	return s, nil
}

func (p *Packer) importInputs(f *excelize.File, resolve func(string) *scenario.Scenario) {
	block, err := xlsxio.ReadSheet(f, p.inputs.SheetName())
	if err != nil {
		p.log.Debug("inputs sheet absent", zap.Error(err))
		return
	}
	p.inputs.ApplySheet(block, resolve)
}

func (p *Packer) importQueries(f *excelize.File) {
	block, err := xlsxio.ReadSheet(f, packs.QueriesSheet)
	if err != nil {
		p.log.Debug("queries sheet absent", zap.Error(err))
		return
	}
	qp := packs.NewQueryPack(p.log)
	qp.Add(p.Scenarios()...)
	qp.ApplyKeys(qp.ParseKeys(block))
}

// importSortables parses each scenario's declared sortables sheet,
// isolated from the other scenarios' failures.
func (p *Packer) importSortables(f *excelize.File) {
	for _, s := range p.Scenarios() {
		block, err := xlsxio.ReadSheet(f, p.sortables.SheetFor(s))
		if err != nil {
			p.log.Debug("sortables sheet absent",
				zap.String("scenario", s.Identifier()), zap.Error(err))
			continue
		}
		fr := p.sortables.Normalize(block)
		if fr.Empty() {
			continue
		}
		if fr.Hierarchical() {
			fr = fr.SliceTop(fr.TopLabels()[0])
		}
		if err := p.sortables.ApplyFragment(s, fr); err != nil {
			p.log.Warn("sortables sheet skipped",
				zap.String("scenario", s.Identifier()), zap.Error(err))
		}
	}
}

// importCustomCurves gathers each scenario's curve sheet and dispatches
// the updates as independent units of work, each holding its own copy of
// its block.
func (p *Packer) importCustomCurves(ctx context.Context, f *excelize.File) {
	var updates []packs.Update
	for _, s := range p.Scenarios() {
		block, err := xlsxio.ReadSheet(f, p.curves.SheetFor(s))
		if err != nil {
			p.log.Debug("custom curves sheet absent",
				zap.String("scenario", s.Identifier()), zap.Error(err))
			continue
		}
		fr := p.curves.Normalize(block)
		if fr.Empty() {
			continue
		}
		if fr.Hierarchical() {
			fr = fr.SliceTop(fr.TopLabels()[0])
		}
		updates = append(updates, packs.Update{Scenario: s, Block: fr.Clone()})
	}
	p.curves.ApplyAll(ctx, updates)
}

func intCell(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		var id int
		if _, err := fmt.Sscanf(strings.TrimSpace(t), "%d", &id); err == nil {
			return id, true
		}
	}
	return 0, false
}
