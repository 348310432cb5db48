// Package hotkeys binds global keys to workspace and layout actions.
package hotkeys

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Controller is what the hotkeys drive.
type Controller interface {
	View(index int) error
	CycleLayout(delta int) (string, error)
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu         *xgbutil.XUtil
	root       xproto.Window
	controller Controller
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler on the root window.
func NewHandler(xu *xgbutil.XUtil, root xproto.Window, controller Controller) *Handler {
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:         xu,
		root:       root,
		controller: controller,
	}
}

// ViewBinding ties a key sequence to a tag position.
type ViewBinding struct {
	Keys  string
	Index int
}

// ViewBindings pairs keys with tag positions. Keys beyond tagCount and
// blank entries are skipped.
func ViewBindings(keys []string, tagCount int) []ViewBinding {
	var out []ViewBinding
	for i, key := range keys {
		if i >= tagCount {
			break
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		out = append(out, ViewBinding{Keys: key, Index: i})
	}
	return out
}

// RegisterViews binds each key to viewing the matching tag.
func (h *Handler) RegisterViews(keys []string, tagCount int) error {
	for _, b := range ViewBindings(keys, tagCount) {
		index := b.Index
		if err := h.RegisterFunc(b.Keys, func() {
			if err := h.controller.View(index); err != nil {
				log.Printf("view %d failed: %v", index, err)
			}
		}); err != nil {
			return fmt.Errorf("failed to register view hotkey %q: %w", b.Keys, err)
		}
	}
	return nil
}

// RegisterCycleLayout binds keySequence to stepping the current workspace
// to the next layout.
func (h *Handler) RegisterCycleLayout(keySequence string) error {
	if strings.TrimSpace(keySequence) == "" {
		return nil
	}
	if err := h.RegisterFunc(keySequence, func() {
		name, err := h.controller.CycleLayout(1)
		if err != nil {
			log.Printf("cycle layout failed: %v", err)
			return
		}
		log.Printf("layout: %s", name)
	}); err != nil {
		return fmt.Errorf("failed to register cycle layout hotkey: %w", err)
	}
	return nil
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	xevent.IgnoreMods = IgnoreMasks(
		uint16(xproto.ModMaskLock),
		modMaskForKeysym(xu, "Num_Lock"),
		modMaskForKeysym(xu, "Scroll_Lock"),
	)
}

// IgnoreMasks returns every combination of the lock modifiers, including
// none, so bindings fire whatever locks are active. Zero and repeated
// masks are dropped.
func IgnoreMasks(locks ...uint16) []uint16 {
	masks := []uint16{0}
	seen := map[uint16]bool{0: true}
	for _, lock := range locks {
		if lock == 0 || seen[lock] {
			continue
		}
		for _, m := range masks {
			combined := m | lock
			if !seen[combined] {
				seen[combined] = true
				masks = append(masks, combined)
			}
		}
	}
	return masks
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
