package exclusion_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/ringside/internal/domain/exclusion"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWindow(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new Window", t, func() {
		Convey("When created with default options", func() {
			w := exclusion.New()

			Convey("Then it is empty with the default capacity", func() {
				So(w.Size(), ShouldEqual, 0)
				So(w.MaxSize(), ShouldEqual, exclusion.DefaultMaxSize)
				So(w.IDs(), ShouldBeEmpty)
			})
		})

		Convey("When created with a non-positive size", func() {
			w := exclusion.New(exclusion.WithMaxSize(-3))

			Convey("Then the default capacity is kept", func() {
				So(w.MaxSize(), ShouldEqual, exclusion.DefaultMaxSize)
			})
		})

		Convey("When recording ids", func() {
			w := exclusion.New()

			Convey("And the id is new", func() {
				seen := w.SeenAndRecord(ctx, "req-1")

				Convey("Then it reports unseen and records it", func() {
					So(seen, ShouldBeFalse)
					So(w.Size(), ShouldEqual, 1)
					So(w.Contains("req-1"), ShouldBeTrue)
				})
			})

			Convey("And the id was already recorded", func() {
				w.SeenAndRecord(ctx, "req-1")
				seen := w.SeenAndRecord(ctx, "req-1")

				Convey("Then it reports seen without growing", func() {
					So(seen, ShouldBeTrue)
					So(w.Size(), ShouldEqual, 1)
				})
			})
		})

		Convey("When unrecording ids", func() {
			w := exclusion.New()
			w.Record(ctx, "a", "b")
			w.Unrecord(ctx, "a")
			w.Unrecord(ctx, "missing")

			Convey("Then only the known id is removed", func() {
				So(w.Size(), ShouldEqual, 1)
				So(w.Contains("a"), ShouldBeFalse)
				So(w.SeenAndRecord(ctx, "a"), ShouldBeFalse)
			})
		})
	})
}

func TestWindow_Eviction(t *testing.T) {
	ctx := context.Background()

	Convey("Given a window of three", t, func() {
		w := exclusion.New(exclusion.WithMaxSize(3))
		w.Record(ctx, "a", "b", "c")

		Convey("Then ids are listed most recent first", func() {
			So(w.IDs(), ShouldResemble, []string{"c", "b", "a"})
		})

		Convey("When a fourth id arrives", func() {
			w.Record(ctx, "d")

			Convey("Then the oldest is evicted", func() {
				So(w.Size(), ShouldEqual, 3)
				So(w.Contains("a"), ShouldBeFalse)
				So(w.IDs(), ShouldResemble, []string{"d", "c", "b"})
			})
		})

		Convey("When an existing id is recorded again", func() {
			w.Record(ctx, "a")
			w.Record(ctx, "d")

			Convey("Then it is refreshed and the next oldest goes", func() {
				So(w.Contains("a"), ShouldBeTrue)
				So(w.Contains("b"), ShouldBeFalse)
				So(w.IDs(), ShouldResemble, []string{"d", "a", "c"})
			})
		})
	})
}

func TestWindow_Concurrent(t *testing.T) {
	ctx := context.Background()

	Convey("Given many goroutines racing on the same ids", t, func() {
		w := exclusion.New()
		const workers = 16
		const ids = 100

		var mu sync.Mutex
		fresh := 0
		var wg sync.WaitGroup
		for g := 0; g < workers; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < ids; i++ {
					if !w.SeenAndRecord(ctx, fmt.Sprintf("id-%d", i)) {
						mu.Lock()
						fresh++
						mu.Unlock()
					}
				}
			}()
		}
		wg.Wait()

		Convey("Then each id is reported unseen exactly once", func() {
			So(fresh, ShouldEqual, ids)
			So(w.Size(), ShouldEqual, ids)
		})
	})
}
