package sheet

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/spritecast/internal/anim"
)

// Assets are the two startup inputs. Both are fetched before playback
// starts; if either fails, startup aborts.
type Assets struct {
	Sheet    *Sheet
	Document *anim.Document
}

// LoadAssets fetches the sprite sheet and the animation document
// concurrently and waits for both.
func LoadAssets(ctx context.Context, sheetPath, documentPath string) (*Assets, error) {
	assets := &Assets{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s, err := Load(sheetPath)
		if err != nil {
			return err
		}
		assets.Sheet = s
		return ctx.Err()
	})
	g.Go(func() error {
		doc, err := anim.ReadDocument(documentPath)
		if err != nil {
			return err
		}
		assets.Document = doc
		return ctx.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return assets, nil
}
