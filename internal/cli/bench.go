package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/service"
)

// BenchOptions controls the follow benchmark.
type BenchOptions struct {
	Followers int
	Workers   int
	Page      int
	Posts     int
}

// NewBenchCommand creates the bench command.
func NewBenchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BenchOptions{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure follow writes and feed reads against the configured database",
		Long: `Seeds one author and N followers, follows concurrently through the
relationship service and then times the follower list and the follow feed.
Seeded rows are left in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer a.close()
			return runBench(cmd.Context(), a, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&opts.Followers, "n", 1000, "number of followers to seed")
	cmd.Flags().IntVar(&opts.Workers, "conc", 4, "concurrent follow workers")
	cmd.Flags().IntVar(&opts.Page, "page", 50, "page size for list queries")
	cmd.Flags().IntVar(&opts.Posts, "posts", 30, "posts published by the author")
	return cmd
}

func runBench(ctx context.Context, a *app, opts *BenchOptions, out io.Writer) error {
	if opts.Followers < 1 {
		return fmt.Errorf("n must be positive")
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > opts.Followers {
		workers = opts.Followers
	}

	tag := uuid.New().String()[:8]
	author := &model.User{Username: "bench-" + tag}
	if err := a.db.WithContext(ctx).Create(author).Error; err != nil {
		return err
	}
	users := make([]model.User, opts.Followers)
	for i := range users {
		users[i] = model.User{Username: fmt.Sprintf("bench-%s-%d", tag, i)}
	}
	if err := a.db.WithContext(ctx).CreateInBatches(&users, 500).Error; err != nil {
		return err
	}
	for i := 0; i < opts.Posts; i++ {
		if _, err := a.posts.Create(ctx, author.ID, service.PostInput{Text: fmt.Sprintf("bench post %d", i)}); err != nil {
			return err
		}
	}

	feed := make(chan uint, len(users))
	for _, u := range users {
		feed <- u.ID
	}
	close(feed)

	var (
		mu   sync.Mutex
		recs = make([]time.Duration, 0, len(users))
		wg   sync.WaitGroup
		errs = make(chan error, workers)
	)
	t0 := time.Now()
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range feed {
				st := time.Now()
				if err := a.relations.Follow(ctx, id, author.Username); err != nil {
					errs <- err
					return
				}
				d := time.Since(st)
				mu.Lock()
				recs = append(recs, d)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	close(errs)
	if err := <-errs; err != nil {
		return err
	}
	followDur := time.Since(t0)

	q0 := time.Now()
	if _, err := a.relations.ListFans(ctx, author.Username, 1, opts.Page); err != nil {
		return err
	}
	fansDur := time.Since(q0)

	q1 := time.Now()
	if _, err := a.feed.List(ctx, service.FollowingOf(users[0].ID), 1); err != nil {
		return err
	}
	feedDur := time.Since(q1)

	n := time.Duration(len(users))
	fmt.Fprintf(out, "N=%d, CONC=%d, PAGE=%d, POSTS=%d\n", len(users), workers, opts.Page, opts.Posts)
	fmt.Fprintf(out, "Follow latency total: %v, per op: %v, p50: %v, p95: %v, p99: %v\n",
		followDur, followDur/n, percentile(recs, 0.50), percentile(recs, 0.95), percentile(recs, 0.99))
	fmt.Fprintf(out, "Query followers(%d) latency: %v\n", opts.Page, fansDur)
	fmt.Fprintf(out, "Query follow feed latency: %v\n", feedDur)
	return nil
}

func percentile(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}
