package view

import (
	"time"

	"honnef.co/go/stackview/geom"
)

// Animation keys, named after the layer properties they animate.
const (
	KeyBoundsSize = "bounds.size"
	KeyPosition   = "position"
)

// FrameAnimation animates a view's frame and notifies interested parties when it stops.
type FrameAnimation struct {
	Animation[geom.Rect]
	done []func(finished bool)
}

// Layer is the rendering side of a view. Its hidden flag is what gets drawn, which can lag behind the view's
// hidden property while a transition is in flight.
type Layer struct {
	view       *View
	hidden     bool
	animations map[string]*FrameAnimation
}

func (l *Layer) Hidden() bool { return l.hidden }

func (l *Layer) SetHidden(hidden bool) { l.hidden = hidden }

// Animation returns the active animation for key, or nil.
func (l *Layer) Animation(key string) *FrameAnimation {
	return l.animations[key]
}

// OnAnimationDone arranges for fn to run when the animation for key stops, either because it finished or
// because it was replaced or cancelled. It reports false, without registering fn, if there is no such
// animation.
func (l *Layer) OnAnimationDone(key string, fn func(finished bool)) bool {
	anim := l.animations[key]
	if anim == nil {
		return false
	}
	anim.done = append(anim.done, fn)
	return true
}

// addAnimation installs anim under key. An animation it replaces stops unfinished; the returned callbacks
// must be run by the caller.
func (l *Layer) addAnimation(key string, anim *FrameAnimation) []func() {
	if l.animations == nil {
		l.animations = map[string]*FrameAnimation{}
	}
	old := l.animations[key]
	l.animations[key] = anim
	if old == nil {
		return nil
	}
	old.Cancel()
	return stopped(old, false)
}

// expire removes the animations that have finished by now.
func (l *Layer) expire(now time.Time) []func() {
	var out []func()
	for _, key := range [...]string{KeyBoundsSize, KeyPosition} {
		anim := l.animations[key]
		if anim == nil || !anim.Finished(now) {
			continue
		}
		delete(l.animations, key)
		anim.Cancel()
		out = append(out, stopped(anim, true)...)
	}
	return out
}

// removeAll cancels every animation.
func (l *Layer) removeAll() []func() {
	var out []func()
	for _, key := range [...]string{KeyBoundsSize, KeyPosition} {
		if anim := l.animations[key]; anim != nil {
			delete(l.animations, key)
			anim.Cancel()
			out = append(out, stopped(anim, false)...)
		}
	}
	return out
}

func stopped(anim *FrameAnimation, finished bool) []func() {
	out := make([]func(), len(anim.done))
	for i, fn := range anim.done {
		out[i] = func() { fn(finished) }
	}
	anim.done = nil
	return out
}

// presentation returns the frame as currently drawn.
func (l *Layer) presentation(now time.Time, model geom.Rect) geom.Rect {
	if anim := l.animations[KeyBoundsSize]; anim != nil {
		return anim.Value(now)
	}
	if anim := l.animations[KeyPosition]; anim != nil {
		return anim.Value(now)
	}
	return model
}
