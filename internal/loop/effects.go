package loop

import "github.com/tomz197/coincatch/internal/object"

// Effects holds short-lived visual objects such as catch sparkles.
// Objects spawned during an update join after it finishes.
type Effects struct {
	Objects []object.Object
	toSpawn []object.Object // Objects to add after current update cycle
}

// Spawn queues an object to be added after the current update cycle.
// Implements object.Spawner interface.
func (e *Effects) Spawn(obj object.Object) {
	e.toSpawn = append(e.toSpawn, obj)
}

// FlushSpawned adds all queued objects and clears the queue.
func (e *Effects) FlushSpawned() {
	e.Objects = append(e.Objects, e.toSpawn...)
	clear(e.toSpawn)
	e.toSpawn = e.toSpawn[:0]
}

// Update advances every effect, dropping and releasing finished ones.
func (e *Effects) Update(ctx object.UpdateContext) error {
	e.FlushSpawned()
	kept := e.Objects[:0]
	for _, obj := range e.Objects {
		remove, err := obj.Update(ctx)
		if err != nil {
			return err
		}
		if remove {
			object.ReleaseObject(obj)
			continue
		}
		kept = append(kept, obj)
	}
	clear(e.Objects[len(kept):])
	e.Objects = kept
	return nil
}

// Draw renders every effect.
func (e *Effects) Draw(ctx object.DrawContext) error {
	for _, obj := range e.Objects {
		if err := obj.Draw(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Reset releases every effect.
func (e *Effects) Reset() {
	e.FlushSpawned()
	for _, obj := range e.Objects {
		object.ReleaseObject(obj)
	}
	clear(e.Objects)
	e.Objects = e.Objects[:0]
}

// Len returns the number of live effects, including queued ones.
func (e *Effects) Len() int {
	return len(e.Objects) + len(e.toSpawn)
}
