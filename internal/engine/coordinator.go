package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"trade-bridge/internal/interfaces"
	"trade-bridge/internal/logger"
	"trade-bridge/internal/metrics"
	"trade-bridge/internal/store"
	"trade-bridge/internal/tradelog"
	"trade-bridge/internal/types"
)

// Coordinator runs the poll-filter-dispatch loop. It is the sole owner
// of the broker session and the cursor; no other component mutates
// either. Ideas are processed strictly in ascending id order so the
// cursor advances deterministically, and one idea's failure never
// blocks the rest of the batch.
type Coordinator struct {
	cfg      *store.Config
	broker   interfaces.Broker
	feed     interfaces.Feed
	cursor   interfaces.CursorStore
	deadlet  interfaces.DeadLetterStore
	notifier interfaces.TextNotifier // optional

	alloc    *Allocator
	builder  *Builder
	oracle   *Oracle
	throttle *Throttle

	// sleep is injectable so tests can drive cycles without real delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// Deps collects the coordinator's collaborators.
type Deps struct {
	Config     *store.Config
	Broker     interfaces.Broker
	Feed       interfaces.Feed
	Cursor     interfaces.CursorStore
	DeadLetter interfaces.DeadLetterStore
	Notifier   interfaces.TextNotifier
	Retry      RetryPolicy
}

func NewCoordinator(d Deps) (*Coordinator, error) {
	builder, err := newBuilderFromConfig(d.Config)
	if err != nil {
		return nil, err
	}
	return &Coordinator{
		cfg:      d.Config,
		broker:   d.Broker,
		feed:     d.Feed,
		cursor:   d.Cursor,
		deadlet:  d.DeadLetter,
		notifier: d.Notifier,
		alloc:    NewAllocator(),
		builder:  builder,
		oracle:   NewOracle(d.Broker, d.Retry),
		throttle: NewThrottle(d.Broker, d.Config.Order.MaxOpenPerSide),
		sleep:    sleepCtx,
	}, nil
}

// Run loops RunCycle at the configured interval until ctx ends. Only
// session-fatal conditions terminate the loop early; everything else is
// absorbed into the next cycle.
func (co *Coordinator) Run(ctx context.Context) error {
	interval := time.Duration(co.cfg.PollSeconds) * time.Second
	logger.Info(ctx, "Polling for new trade ideas", "interval", interval.String(), "feed", co.cfg.Feed.URL)

	for {
		if err := co.RunCycle(ctx); err != nil {
			return err
		}
		if err := co.sleep(ctx, interval); err != nil {
			return nil // context ended between cycles
		}
	}
}

// RunCycle executes one fetch/filter/dispatch pass. The cursor is read
// fresh every cycle so an externally edited value is honoured.
func (co *Coordinator) RunCycle(ctx context.Context) error {
	if err := co.ensureSeeded(ctx); err != nil {
		return err // session-fatal: cannot allocate order ids
	}

	cursorID, _, err := co.cursor.Read()
	if err != nil {
		return fmt.Errorf("read cursor: %w", err)
	}

	batch, err := co.feed.FetchBatch(ctx)
	if err != nil {
		// Transient: an unreachable feed behaves exactly like an empty
		// batch. Wait for the next cycle.
		logger.Warn(ctx, "Feed fetch failed, deferring to next cycle", "error", err)
		metrics.FeedErrors.Inc()
		metrics.Cycles.Inc()
		return nil
	}

	fresh := batch[:0:0]
	for _, idea := range batch {
		if idea.ID > cursorID {
			fresh = append(fresh, idea)
		} else {
			logger.Debug(ctx, "Ignoring already processed idea", "idea_id", idea.ID, "cursor", cursorID)
		}
	}
	sort.Slice(fresh, func(i, j int) bool { return fresh[i].ID < fresh[j].ID })

	if len(fresh) == 0 {
		logger.Debug(ctx, "No new trade ideas", "cursor", cursorID, "batch_size", len(batch))
		metrics.Cycles.Inc()
		return nil
	}

	logger.Info(ctx, "New trade ideas received", "count", len(fresh), "cursor", cursorID)

	for _, idea := range fresh {
		if err := co.processIdea(ctx, idea); err != nil {
			return err // only cursor-write failures bubble up
		}
	}

	metrics.Cycles.Inc()
	return nil
}

// processIdea dispatches one idea and advances the cursor. A per-idea
// fatal error dead-letters the idea and still advances the cursor
// (skip-and-advance), so a poison idea cannot wedge the loop forever.
// Only a failed cursor write is fatal: continuing without durability
// would double-submit after a restart.
func (co *Coordinator) processIdea(ctx context.Context, idea types.TradeIdea) error {
	logger.Info(ctx, "Processing trade idea", "idea_id", idea.ID, "symbol", idea.Symbol, "action", idea.Action, "source", idea.SourceTag)

	if err := co.dispatch(ctx, idea); err != nil {
		co.recordSkip(ctx, idea, err)
	}

	if err := co.cursor.Write(idea.ID); err != nil {
		return fmt.Errorf("persist cursor for idea %d: %w", idea.ID, err)
	}
	metrics.CursorPosition.Set(float64(idea.ID))
	logger.Debug(ctx, "Cursor advanced", "idea_id", idea.ID)
	return nil
}

func (co *Coordinator) dispatch(ctx context.Context, idea types.TradeIdea) error {
	side, err := types.ParseSide(idea.Action)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}

	spec := types.ContractSpec{
		Symbol:   co.tradableSymbol(idea.Symbol),
		Expiry:   co.cfg.Contract.Expiry,
		Exchange: co.cfg.Contract.Exchange,
		Currency: co.cfg.Contract.Currency,
	}
	contract, err := co.broker.QualifyContract(ctx, spec)
	if err != nil {
		return fmt.Errorf("qualify contract: %w", err)
	}

	ok, err := co.throttle.CheckCapacity(ctx, contract, side)
	if err != nil {
		return fmt.Errorf("check open orders: %w", err)
	}
	if !ok {
		metrics.ThrottleDenials.Inc()
		return fmt.Errorf("%w for %s", ErrThrottled, contract.Spec.Symbol)
	}

	price, err := co.oracle.ResolvePrice(ctx, contract)
	if err != nil {
		return err
	}

	bracket, err := co.builder.Build(co.alloc, side, price)
	if err != nil {
		return err
	}

	logger.Info(ctx, "Bracket built",
		"idea_id", idea.ID,
		"symbol", contract.Spec.Symbol,
		"side", string(side),
		"reference_price", price.String(),
		"entry", bracket.Entry.LimitPrice.String(),
		"entry_stop", bracket.Entry.StopPrice.String(),
		"take_profit", bracket.TakeProfit.LimitPrice.String(),
		"stop_loss", bracket.StopLoss.StopPrice.String(),
	)

	for _, leg := range bracket.Legs() {
		if err := co.broker.PlaceOrder(ctx, contract, leg); err != nil {
			// Earlier legs of this bracket were never transmitted
			// (transmit=false), so the broker discards them.
			return fmt.Errorf("submit %s leg: %w", leg.Role, err)
		}
		metrics.OrdersSubmitted.WithLabelValues(leg.Action).Inc()
	}

	metrics.IdeasDispatched.WithLabelValues(string(side)).Inc()

	_ = tradelog.Append(tradelog.Entry{
		IdeaID:     idea.ID,
		Symbol:     contract.Spec.Symbol,
		Side:       string(side),
		Qty:        co.builder.quantity,
		Policy:     string(co.builder.policy),
		EntryPrice: bracket.Entry.LimitPrice.String(),
		StopLoss:   bracket.StopLoss.StopPrice.String(),
		TakeProfit: bracket.TakeProfit.LimitPrice.String(),
		OrderIDs:   [3]int64{bracket.Entry.OrderID, bracket.TakeProfit.OrderID, bracket.StopLoss.OrderID},
		Source:     idea.SourceTag,
	})

	co.notify(fmt.Sprintf("Bracket submitted: idea %d %s %s @ %s (TP %s / SL %s)",
		idea.ID, side, contract.Spec.Symbol, bracket.Entry.LimitPrice.String(),
		bracket.TakeProfit.LimitPrice.String(), bracket.StopLoss.StopPrice.String()))

	logger.Info(ctx, "Bracket submitted", "idea_id", idea.ID, "entry_order_id", bracket.Entry.OrderID)
	return nil
}

// recordSkip dead-letters a per-idea fatal failure. The cursor still
// advances for this idea; the dead-letter table and skip log are the
// operator's review channel.
func (co *Coordinator) recordSkip(ctx context.Context, idea types.TradeIdea, cause error) {
	logger.Warn(ctx, "Skipping trade idea",
		"idea_id", idea.ID,
		"symbol", idea.Symbol,
		"action", idea.Action,
		"reason", cause.Error(),
	)
	metrics.IdeasSkipped.WithLabelValues(skipReason(cause)).Inc()

	if co.deadlet != nil {
		if err := co.deadlet.RecordDeadLetter(idea, cause.Error()); err != nil {
			logger.ErrorWithErr(ctx, "Failed to record dead letter", err, "idea_id", idea.ID)
		}
	}
	_ = tradelog.AppendSkip(tradelog.SkipEntry{
		IdeaID: idea.ID,
		Symbol: idea.Symbol,
		Action: idea.Action,
		Reason: cause.Error(),
	})
	co.notify(fmt.Sprintf("Skipped idea %d (%s %s): %v", idea.ID, idea.Symbol, idea.Action, cause))
}

func (co *Coordinator) ensureSeeded(ctx context.Context) error {
	if co.alloc.Seeded() {
		return nil
	}
	id, err := co.broker.NextOrderID(ctx)
	if err != nil {
		return fmt.Errorf("seed order id allocator: %w", err)
	}
	return co.alloc.Seed(id)
}

func (co *Coordinator) tradableSymbol(feedSymbol string) string {
	if feedSymbol == "" {
		return co.cfg.Contract.Symbol
	}
	return co.cfg.TradableSymbol(feedSymbol)
}

func (co *Coordinator) notify(text string) {
	if co.notifier == nil {
		return
	}
	if err := co.notifier.SendText(text); err != nil {
		logger.Warn(context.Background(), "Notification delivery failed", "error", err)
	}
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAction):
		return "invalid_action"
	case errors.Is(err, ErrThrottled):
		return "throttled"
	case errors.Is(err, ErrPriceUnavailable):
		return "price_unavailable"
	default:
		return "dispatch_failed"
	}
}
