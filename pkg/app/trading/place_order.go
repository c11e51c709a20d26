package trading

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/uhyunpark/tradedesk/pkg/app/core/order"
)

// PlaceOrder validates req for user and, on success, appends exactly one
// order to the ledger. Checks run in a fixed order and the first failure
// wins, so error messages are deterministic.
func (a *App) PlaceOrder(req order.Request, user order.UserID) (order.Order, error) {
	unlock := a.lockUser(user)
	placed, err := a.placeLocked(req, user)
	unlock()

	if err != nil {
		if kind := order.KindOf(err); kind != "" {
			a.Logger.Debugw("order_rejected", "user", user, "symbol", req.Symbol, "kind", kind, "reason", err.Error())
		} else {
			a.Logger.Errorw("order_failed", "user", user, "symbol", req.Symbol, "err", err)
		}
		return order.Order{}, err
	}

	a.Logger.Infow("order_placed",
		"order_id", placed.OrderID,
		"user", user,
		"symbol", placed.Symbol,
		"type", placed.Type,
		"style", placed.Style,
		"qty", placed.Quantity.String(),
		"price", placed.Price.String())

	if err := a.Journal.Record("ORDER_PLACED", placed); err != nil {
		a.Logger.Warnw("journal_write_failed", "order_id", placed.OrderID, "err", err)
	}
	if a.OnOrderPlaced != nil {
		a.OnOrderPlaced(placed)
	}
	return placed, nil
}

func (a *App) placeLocked(req order.Request, user order.UserID) (order.Order, error) {
	var missing []string
	if req.Symbol == "" {
		missing = append(missing, "symbol")
	}
	if req.OrderType == "" {
		missing = append(missing, "orderType")
	}
	if req.OrderStyle == "" {
		missing = append(missing, "orderStyle")
	}
	if len(missing) > 0 {
		return order.Order{}, order.MissingFieldsError(missing...)
	}

	inst, ok := a.catalog.Get(req.Symbol)
	if !ok {
		return order.Order{}, order.Reject(order.UnknownInstrument, order.MsgUnknownInstrument)
	}

	typ := order.Type(req.OrderType)
	if !typ.Valid() {
		return order.Order{}, order.Reject(order.InvalidOrderType, order.MsgInvalidOrderType)
	}

	style := order.Style(req.OrderStyle)
	if !style.Valid() {
		return order.Order{}, order.Reject(order.InvalidOrderStyle, order.MsgInvalidOrderStyle)
	}

	qty, err := parseNumber(req.Quantity)
	if err != nil || !qty.IsPositive() || !inRange(qty) {
		return order.Order{}, order.Reject(order.InvalidQuantity, order.MsgInvalidQuantity)
	}

	if typ == order.Sell {
		h, ok, err := a.projector.Holding(user, inst.Symbol)
		if err != nil {
			return order.Order{}, fmt.Errorf("check holdings: %w", err)
		}
		if !ok || h.Quantity.LessThan(qty) {
			return order.Order{}, order.Reject(order.InsufficientHoldings, order.MsgInsufficientHoldings)
		}
	}

	price := inst.LastTradedPrice
	if style == order.Limit {
		if req.Price == nil {
			return order.Order{}, order.Reject(order.InvalidPrice, order.MsgMissingPrice)
		}
		limit, err := parseNumber(*req.Price)
		if err != nil {
			return order.Order{}, order.Reject(order.InvalidPrice, order.MsgInvalidPriceFormat)
		}
		if !limit.IsPositive() {
			return order.Order{}, order.Reject(order.InvalidPrice, order.MsgMissingPrice)
		}
		if !inRange(limit) {
			return order.Order{}, order.Reject(order.InvalidPrice, order.MsgInvalidPriceFormat)
		}
		price = limit
	}

	id, err := a.uniqueID()
	if err != nil {
		return order.Order{}, err
	}

	placed := order.Order{
		OrderID:  id,
		UserID:   user,
		Symbol:   inst.Symbol,
		Type:     typ,
		Style:    style,
		Quantity: qty,
		Price:    price,
		Status:   order.StatusPlaced,
	}
	if err := a.ledger.Append(placed); err != nil {
		return order.Order{}, fmt.Errorf("append order: %w", err)
	}
	return placed, nil
}

// uniqueID draws IDs until one is unused, giving up after MaxIDAttempts.
func (a *App) uniqueID() (string, error) {
	for i := 0; i < MaxIDAttempts; i++ {
		id := a.NewID()
		_, err := a.ledger.GetByID(id)
		if errors.Is(err, order.ErrOrderNotFound) {
			return id, nil
		}
		if err != nil {
			return "", fmt.Errorf("check order id: %w", err)
		}
		a.Logger.Warnw("order_id_collision", "order_id", id, "attempt", i+1)
	}
	return "", order.ErrIDExhausted
}

func parseNumber(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(raw))
}

// Bounds on accepted quantities and prices. Anything larger is kept out of
// the ledger, since every later projection of the user has to carry it.
const (
	MaxIntegerDigits  = 15
	MaxFractionDigits = 8

	// maxExponent caps the raw scale, so trailing zeros such as 1.50000
	// still pass while 1e-30000000 is refused before any rescaling.
	maxExponent = 32
)

// inRange reports whether d has at most MaxIntegerDigits integer digits and
// at most MaxFractionDigits significant fractional digits. The exponent and
// mantissa length are checked first: both are cheap, whereas Truncate would
// rescale an arbitrarily large big.Int.
func inRange(d decimal.Decimal) bool {
	exp := int(d.Exponent())
	if exp > MaxIntegerDigits || exp < -maxExponent {
		return false
	}
	digits := d.NumDigits()
	if digits > MaxIntegerDigits+maxExponent || digits+exp > MaxIntegerDigits {
		return false
	}
	return d.Equal(d.Truncate(MaxFractionDigits))
}
