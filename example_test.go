package querycache_test

import (
	"context"
	"fmt"

	"github.com/hupe1980/querycache"
	"github.com/hupe1980/querycache/model"
)

func Example() {
	ctx := context.Background()

	qc, err := querycache.New(querycache.WithMode(querycache.ModeOn), querycache.WithMaxResults(2))
	if err != nil {
		panic(err)
	}
	defer qc.Close()

	const text = "FOR u IN users FILTER u.active RETURN u"
	hash := model.Hash(0xfeed)

	if e, ok := qc.Lookup(ctx, "_system", hash, text); ok {
		e.Release()
	} else {
		rows := model.NewPayload([]byte(`[{"name":"alice"}]`))
		qc.Store(ctx, "_system", hash, text, rows, nil, []model.DataSource{"users"})
		rows.Release()
	}

	if e, ok := qc.Lookup(ctx, "_system", hash, text); ok {
		fmt.Println(string(e.Result.Bytes()))
		e.Release()
	}

	// A write to "users" invalidates every result that read it.
	fmt.Println(qc.InvalidateSource(ctx, "_system", "users"))

	_, ok := qc.Lookup(ctx, "_system", hash, text)
	fmt.Println(ok)
	// Output:
	// [{"name":"alice"}]
	// 1
	// false
}

func ExampleParseMode() {
	m, err := querycache.ParseMode("demand")
	fmt.Println(m, err)

	_, err = querycache.ParseMode("sometimes")
	fmt.Println(err)
	// Output:
	// demand <nil>
	// invalid cache mode "sometimes" (want off, on or demand)
}
