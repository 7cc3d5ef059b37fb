package watch

import "github.com/odvcencio/furry-toolbelt/box"

// Sync pushes dep into onChange now and after every change. It only syncs
// one way; for two-way binding build a box with box.WithSetter instead.
func Sync[T comparable](dep box.Readable[T], onChange func(T), opts ...Option) *Watcher[T] {
	if onChange == nil {
		panic("watch: nil sync target")
	}
	opts = append(opts[:len(opts):len(opts)], Immediate())
	return Watch(dep, func(curr, _ T) { onChange(curr) }, opts...)
}
