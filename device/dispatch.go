package device

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// dispatch runs every work-group of k. Groups are split in contiguous
// ranges over the compute units; each worker reuses one Group and its
// scratch memory.
func dispatch(d Device, k *Kernel, global, local int) error {
	groups := global / local
	workers := min(d.ComputeUnits, groups)
	chunk := (groups + workers - 1) / workers

	var eg errgroup.Group
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, groups)
		if start >= end {
			continue
		}
		eg.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("kernel %s panicked: %v", k.Name(), r)
				}
			}()
			g := &Group{size: local, global: global}
			if k.localWords > 0 {
				g.local = make([]uint32, k.localWords)
			}
			for id := start; id < end; id++ {
				g.id = id
				if err := k.run(g); err != nil {
					return fmt.Errorf("kernel %s, group %d: %w", k.Name(), id, err)
				}
			}
			return nil
		})
	}
	return eg.Wait()
}
