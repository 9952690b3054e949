// Package repeat submits the same form many times, optionally rate limited,
// and summarizes the observed latencies.
//
// Basic usage:
//
//	summary, err := repeat.Run(ctx, repeat.Config{Count: 100, Rate: 10, Concurrency: 4},
//		func(ctx context.Context, i int) error {
//			_, err := form.Submit[*http.Response](ctx, f.Clone(), client)
//			return err
//		})
package repeat
