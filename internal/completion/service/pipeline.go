package service

import (
	"context"
	"fmt"

	"github.com/sielsystems/acumulus/internal/completion/domain"
	"github.com/sielsystems/acumulus/internal/config"
	invoicedomain "github.com/sielsystems/acumulus/internal/invoice/domain"
	"github.com/sielsystems/acumulus/internal/observability/metrics"
	taxrepairdomain "github.com/sielsystems/acumulus/internal/taxrepair/domain"
	vatratedomain "github.com/sielsystems/acumulus/internal/vatrate/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Pipeline runs the invoice completors in their fixed order. The order
// matters: later tasks read metadata earlier tasks computed (totals before
// currency conversion, rate resolution before tax repair, everything before
// the concept escalation).
type Pipeline struct {
	log     *zap.Logger
	metrics *metrics.Metrics
	tasks   []domain.Completor
}

type PipelineParam struct {
	fx.In

	Log      *zap.Logger
	Settings *config.SettingsHolder
	Rates    vatratedomain.Provider
	Engine   taxrepairdomain.Engine
	Metrics  *metrics.Metrics `optional:"true"`
}

func NewPipeline(p PipelineParam) domain.Service {
	log := p.Log.Named("completion.pipeline")
	return &Pipeline{
		log:     log,
		metrics: p.Metrics,
		tasks: []domain.Completor{
			newCustomerCompletor(p.Settings),
			newInvoiceNumberCompletor(p.Settings),
			newNatureCompletor(p.Settings),
			newVatRangeCompletor(p.Rates, log),
			newMarginCompletor(p.Settings),
			newTaxRepairCompletor(p.Engine, log),
			newTotalsCompletor(),
			newEuroCompletor(),
			newConceptCompletor(),
		},
	}
}

func (p *Pipeline) Complete(ctx context.Context, inv *invoicedomain.Invoice) (*domain.Result, error) {
	if inv == nil {
		return nil, domain.ErrNilInvoice
	}

	for _, task := range p.tasks {
		if err := task.Complete(ctx, inv); err != nil {
			return nil, fmt.Errorf("completor %s: %w", task.Name(), err)
		}
	}

	result := &domain.Result{
		Invoice:  inv,
		Warnings: inv.Warnings(),
	}
	if v, ok := inv.Metadata().First(invoicedomain.MetaRepairStrategy); ok {
		if strategy, ok := v.(taxrepairdomain.Strategy); ok {
			result.RepairStrategy = strategy
			result.RepairRan = true
		}
	}

	p.record(ctx, result)
	return result, nil
}

func (p *Pipeline) record(ctx context.Context, result *domain.Result) {
	p.metrics.RecordInvoiceCompleted(ctx)
	for _, line := range result.Invoice.Lines() {
		p.metrics.RecordLineResolved(ctx, string(line.VatRateSource()))
	}
	if result.RepairRan {
		p.metrics.RecordRepair(ctx, result.RepairStrategy.String())
	}
	p.log.Info("invoice completed",
		zap.Int("lines", len(result.Invoice.Lines())),
		zap.Int("warnings", len(result.Warnings)),
	)
}
