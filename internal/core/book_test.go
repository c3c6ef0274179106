package core

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndmitrieva/lob-engine/internal/adapter/in_memory"
	"github.com/ndmitrieva/lob-engine/internal/domain"
)

func testBook(opts ...Option) *Book {
	return NewBook("TEST-USD", testScale(), opts...)
}

func limitParams(side domain.Side, price, qty string) domain.OrderParams {
	return domain.OrderParams{
		Side:     side,
		Type:     domain.Limit,
		Price:    dec(price),
		Quantity: dec(qty),
	}
}

func marketParams(side domain.Side, qty string) domain.OrderParams {
	return domain.OrderParams{
		Side:     side,
		Type:     domain.Market,
		Quantity: dec(qty),
	}
}

func TestBookPlaceAndQuery(t *testing.T) {
	ctx := context.Background()
	book := testBook()

	res, err := book.Place(ctx, limitParams(domain.Sell, "10.00", "5"))
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.NotEmpty(t, res.OrderID)

	o, err := book.GetOrder(res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.Pending, o.Status())
	assert.Equal(t, "10.00", o.Price().StringFixed(2))

	ask, err := book.BestAsk()
	require.NoError(t, err)
	assert.Equal(t, "10.00", ask.StringFixed(2))

	assert.True(t, book.Volume(domain.Sell).Equal(dec("5")))
	assert.Equal(t, 1, book.Size(domain.Sell))
}

func TestBookRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	book := testBook()

	_, err := book.Place(ctx, limitParams(domain.Sell, "0", "5"))
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = book.Place(ctx, limitParams(domain.Sell, "10.00", "-5"))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = book.Place(ctx, marketParams(domain.Sell, "5"))
	assert.ErrorIs(t, err, domain.ErrInvalidOrderType)

	_, err = book.Execute(ctx, limitParams(domain.Sell, "10.00", "5"))
	assert.ErrorIs(t, err, domain.ErrInvalidOrderType)

	// nothing reached the book
	assert.True(t, book.Volume(domain.Sell).IsZero())
	assert.Equal(t, 0, book.Size(domain.Sell))
}

func TestBookPlaceCancelRoundTrip(t *testing.T) {
	ctx := context.Background()
	book := testBook()

	_, err := book.Place(ctx, limitParams(domain.Buy, "9.00", "7"))
	require.NoError(t, err)
	volBefore := book.Volume(domain.Buy)
	sizeBefore := book.Size(domain.Buy)

	res, err := book.Place(ctx, limitParams(domain.Buy, "9.50", "4"))
	require.NoError(t, err)
	require.NoError(t, book.Cancel(ctx, res.OrderID))

	assert.True(t, book.Volume(domain.Buy).Equal(volBefore))
	assert.Equal(t, sizeBefore, book.Size(domain.Buy))

	// the id left the index with the cancellation
	_, err = book.GetOrder(res.OrderID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.ErrorIs(t, book.Cancel(ctx, res.OrderID), domain.ErrOrderNotFound)
}

func TestBookCancelUnknownOrder(t *testing.T) {
	book := testBook()
	err := book.Cancel(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestBookExecuteRoutesToOppositeSide(t *testing.T) {
	ctx := context.Background()
	book := testBook()

	sell, err := book.Place(ctx, limitParams(domain.Sell, "10.00", "5"))
	require.NoError(t, err)
	_, err = book.Place(ctx, limitParams(domain.Buy, "9.00", "5"))
	require.NoError(t, err)

	res, err := book.Execute(ctx, marketParams(domain.Buy, "5"))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.OrdersMatched)
	assert.True(t, res.ExecutionPrices["10.00"].Equal(dec("5")))

	// asks drained, bids untouched
	assert.True(t, book.Volume(domain.Sell).IsZero())
	assert.True(t, book.Volume(domain.Buy).Equal(dec("5")))

	// the filled resting order left the index
	_, err = book.GetOrder(sell.OrderID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestBookExecuteInsufficientLiquidity(t *testing.T) {
	ctx := context.Background()
	book := testBook()
	placed, err := book.Place(ctx, limitParams(domain.Sell, "10.00", "5"))
	require.NoError(t, err)

	res, err := book.Execute(ctx, marketParams(domain.Buy, "6"))
	assert.ErrorIs(t, err, domain.ErrInsufficientLiquidity)
	require.NotNil(t, res)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Message)

	// book untouched, resting order still live
	assert.True(t, book.Volume(domain.Sell).Equal(dec("5")))
	o, err := book.GetOrder(placed.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.Pending, o.Status())
}

func TestBookSpreadAndMid(t *testing.T) {
	ctx := context.Background()
	book := testBook()

	_, err := book.Spread()
	assert.ErrorIs(t, err, domain.ErrEmptySide)

	_, err = book.Place(ctx, limitParams(domain.Buy, "9.00", "1"))
	require.NoError(t, err)
	_, err = book.Place(ctx, limitParams(domain.Sell, "10.00", "1"))
	require.NoError(t, err)

	spread, err := book.Spread()
	require.NoError(t, err)
	assert.True(t, spread.Equal(dec("1")))

	mid, err := book.MidPrice()
	require.NoError(t, err)
	assert.True(t, mid.Equal(dec("9.5")))
}

func TestBookDepthAndView(t *testing.T) {
	ctx := context.Background()
	book := testBook()

	for _, p := range []string{"9.00", "9.50", "8.75"} {
		_, err := book.Place(ctx, limitParams(domain.Buy, p, "2"))
		require.NoError(t, err)
	}
	for _, p := range []string{"10.00", "10.25"} {
		_, err := book.Place(ctx, limitParams(domain.Sell, p, "3"))
		require.NoError(t, err)
	}

	snap := book.Depth(ctx, 2)
	assert.Len(t, snap.Bids, 2)
	assert.Len(t, snap.Asks, 2)
	assert.Equal(t, 3, snap.TotalBidLevels)
	assert.Equal(t, 2, snap.TotalAskLevels)
	assert.Equal(t, "9.50", snap.Bids[0].Price)
	assert.Equal(t, "10.00", snap.Asks[0].Price)

	view := book.View(ctx, 2)
	assert.Contains(t, view, "9.50")
	assert.Contains(t, view, "10.00")
	assert.Contains(t, view, "...(1 more bids)")
	// asks listed best-last so the spread sits at the divider
	assert.Less(t, strings.Index(view, "10.25"), strings.Index(view, "10.00"))
}

func TestBookDepthUsesCache(t *testing.T) {
	ctx := context.Background()
	cache := in_memory.NewCache()
	book := testBook(WithCache(cache))

	_, err := book.Place(ctx, limitParams(domain.Sell, "10.00", "5"))
	require.NoError(t, err)

	first := book.Depth(ctx, DisplayDepth)
	require.Len(t, first.Asks, 1)

	cached, err := cache.GetDepth(ctx, book.Symbol())
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, first.Asks, cached.Asks)

	// a mutation invalidates; the next snapshot reflects the new book
	_, err = book.Place(ctx, limitParams(domain.Sell, "11.00", "5"))
	require.NoError(t, err)

	cached, err = cache.GetDepth(ctx, book.Symbol())
	require.NoError(t, err)
	assert.Nil(t, cached)

	second := book.Depth(ctx, DisplayDepth)
	assert.Len(t, second.Asks, 2)
}

func TestBookVolumeInvariantAfterMixedFlow(t *testing.T) {
	ctx := context.Background()
	book := testBook()

	var ids []string
	for _, lv := range []struct{ price, qty string }{
		{"10.00", "2"}, {"10.00", "3"}, {"10.50", "4"}, {"11.00", "1.25"},
	} {
		res, err := book.Place(ctx, limitParams(domain.Sell, lv.price, lv.qty))
		require.NoError(t, err)
		ids = append(ids, res.OrderID)
	}

	require.NoError(t, book.Cancel(ctx, ids[1]))
	_, err := book.Execute(ctx, marketParams(domain.Buy, "4.5"))
	require.NoError(t, err)

	// 2+3+4+1.25 placed, 3 canceled, 4.5 executed
	want := dec("2").Add(dec("4")).Add(dec("1.25")).Sub(dec("4.5"))
	assert.True(t, book.Volume(domain.Sell).Equal(want),
		"volume %s, want %s", book.Volume(domain.Sell), want)
	assertSideVolumeInvariant(t, book.asks)
}

func TestBookScale(t *testing.T) {
	book := NewBook("X", domain.NewScale(4))
	assert.Equal(t, int32(4), book.Scale().Digits())

	res, err := book.Place(context.Background(), limitParams(domain.Sell, "10.12345", "1"))
	require.NoError(t, err)
	o, err := book.GetOrder(res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "10.1235", o.Price().StringFixed(4))
}
