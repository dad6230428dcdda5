package sandbox

import (
	"strings"

	"github.com/dop251/goja"

	"github.com/glyphcast/mathview/internal/dom"
)

// setupGlobals installs the document-independent surface: console, virtual
// timers, observer constructors, and blocked host globals.
func (r *Runtime) setupGlobals() error {
	// Remove dangerous globals
	r.vm.Set("require", goja.Undefined())
	r.vm.Set("process", goja.Undefined())
	r.vm.Set("module", goja.Undefined())
	r.vm.Set("exports", goja.Undefined())

	if r.cfg.EnableConsole {
		console := r.vm.NewObject()
		console.Set("log", r.makeConsoleFunc("log"))
		console.Set("warn", r.makeConsoleFunc("warn"))
		console.Set("error", r.makeConsoleFunc("error"))
		console.Set("info", r.makeConsoleFunc("info"))
		r.vm.Set("console", console)
	}

	r.vm.Set("setTimeout", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return goja.Undefined()
		}
		fn, ok := goja.AssertFunction(call.Arguments[0])
		if !ok {
			return goja.Undefined()
		}
		var ms float64
		if len(call.Arguments) > 1 {
			ms = call.Arguments[1].ToFloat()
		}
		id := r.timers.schedule(millis(ms), fn)
		return r.vm.ToValue(id)
	})
	r.vm.Set("clearTimeout", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			r.timers.cancel(call.Arguments[0].ToInteger())
		}
		return goja.Undefined()
	})
	// Frame-aligned scheduling maps onto the same virtual clock.
	r.vm.Set("requestAnimationFrame", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return goja.Undefined()
		}
		fn, ok := goja.AssertFunction(call.Arguments[0])
		if !ok {
			return goja.Undefined()
		}
		id := r.timers.schedule(millis(16), fn)
		return r.vm.ToValue(id)
	})
	r.vm.Set("cancelAnimationFrame", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			r.timers.cancel(call.Arguments[0].ToInteger())
		}
		return goja.Undefined()
	})

	if r.cfg.EnableResizeObserver {
		r.vm.Set("ResizeObserver", r.makeResizeObserverCtor())
	}
	if r.cfg.EnableMutationObserver {
		r.vm.Set("MutationObserver", r.makeMutationObserverCtor())
	}

	return nil
}

// setupDocumentGlobals installs document and window for the attached
// dom.Document.
func (r *Runtime) setupDocumentGlobals() error {
	document := r.vm.NewObject()
	document.Set("readyState", "complete")

	if body := r.doc.Body(); body != nil {
		document.Set("body", r.elementObject(body))
	} else {
		document.Set("body", goja.Null())
	}
	document.Set("documentElement", r.elementObject(r.doc.Root()))

	document.Set("querySelectorAll", func(selector string) goja.Value {
		return r.nodeList(r.doc.Query(selector))
	})
	document.Set("querySelector", func(selector string) goja.Value {
		nodes := r.doc.Query(selector)
		if len(nodes) == 0 {
			return goja.Null()
		}
		return r.elementObject(nodes[0])
	})
	document.Set("getElementById", func(id string) goja.Value {
		if n := r.doc.GetByID(id); n != nil {
			return r.elementObject(n)
		}
		return goja.Null()
	})
	document.Set("getElementsByTagName", func(tag string) goja.Value {
		return r.nodeList(r.doc.Query(tag))
	})
	document.Set("getElementsByClassName", func(class string) goja.Value {
		return r.nodeList(r.doc.Query("." + class))
	})
	document.Set("addEventListener", func(call goja.FunctionCall) goja.Value {
		r.addListener(r.docListeners, call)
		return goja.Undefined()
	})
	r.vm.Set("document", document)

	window := r.vm.NewObject()
	window.Set("innerHeight", r.cfg.InnerHeight)
	window.Set("addEventListener", func(call goja.FunctionCall) goja.Value {
		r.addListener(r.winListeners, call)
		return goja.Undefined()
	})
	hostBridge := r.vm.NewObject()
	hostBridge.Set("postMessage", func(payload string) {
		r.emit(payload)
	})
	window.Set("MathViewBridge", hostBridge)
	r.vm.Set("window", window)

	return nil
}

func (r *Runtime) addListener(listeners map[string][]goja.Callable, call goja.FunctionCall) {
	if len(call.Arguments) < 2 {
		return
	}
	name := call.Arguments[0].String()
	if cb, ok := goja.AssertFunction(call.Arguments[1]); ok {
		listeners[name] = append(listeners[name], cb)
	}
}

func (r *Runtime) makeConsoleFunc(level string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		var msg strings.Builder
		for i, arg := range call.Arguments {
			if i > 0 {
				msg.WriteString(" ")
			}
			msg.WriteString(arg.String())
		}
		r.recordConsole(level, msg.String())
		return goja.Undefined()
	}
}

func (r *Runtime) makeResizeObserverCtor() func(goja.ConstructorCall) *goja.Object {
	return func(call goja.ConstructorCall) *goja.Object {
		var cb goja.Callable
		if len(call.Arguments) > 0 {
			cb, _ = goja.AssertFunction(call.Arguments[0])
		}
		obs := &resizeObserver{cb: cb, nodes: make(map[*dom.Node]struct{}), active: true}
		r.resizeObs = append(r.resizeObs, obs)

		call.This.Set("observe", func(fc goja.FunctionCall) goja.Value {
			if len(fc.Arguments) > 0 {
				if n := r.nodeFromValue(fc.Arguments[0]); n != nil {
					obs.nodes[n] = struct{}{}
				}
			}
			return goja.Undefined()
		})
		call.This.Set("unobserve", func(fc goja.FunctionCall) goja.Value {
			if len(fc.Arguments) > 0 {
				if n := r.nodeFromValue(fc.Arguments[0]); n != nil {
					delete(obs.nodes, n)
				}
			}
			return goja.Undefined()
		})
		call.This.Set("disconnect", func(goja.FunctionCall) goja.Value {
			obs.active = false
			obs.nodes = make(map[*dom.Node]struct{})
			return goja.Undefined()
		})
		return nil
	}
}

func (r *Runtime) makeMutationObserverCtor() func(goja.ConstructorCall) *goja.Object {
	return func(call goja.ConstructorCall) *goja.Object {
		var cb goja.Callable
		if len(call.Arguments) > 0 {
			cb, _ = goja.AssertFunction(call.Arguments[0])
		}
		obs := &mutationObserver{cb: cb}
		r.mutationObs = append(r.mutationObs, obs)

		// Target and options are accepted but subtree observation over the
		// whole document is assumed; the monitor observes body with subtree
		// anyway.
		call.This.Set("observe", func(goja.FunctionCall) goja.Value {
			obs.active = true
			return goja.Undefined()
		})
		call.This.Set("disconnect", func(goja.FunctionCall) goja.Value {
			obs.active = false
			return goja.Undefined()
		})
		return nil
	}
}

// elementObject returns the JS proxy for a node, creating and caching it on
// first use. Metric reads go through accessors so scripts always see the
// latest layout values.
func (r *Runtime) elementObject(n *dom.Node) *goja.Object {
	if obj, ok := r.elems[n]; ok {
		return obj
	}

	obj := r.vm.NewObject()
	nid := r.nextNID
	r.nextNID++
	r.nodeIDs[nid] = n
	r.elems[n] = obj

	obj.Set("__nid", nid)
	obj.Set("tagName", strings.ToUpper(n.Tag))
	obj.Set("id", n.ID)
	obj.Set("className", strings.Join(n.Classes, " "))

	obj.DefineAccessorProperty("scrollHeight",
		r.vm.ToValue(func() float64 { return n.Metrics().ScrollHeight }),
		nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("offsetHeight",
		r.vm.ToValue(func() float64 { return n.Metrics().OffsetHeight }),
		nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("clientHeight",
		r.vm.ToValue(func() float64 { return n.Metrics().ClientHeight }),
		nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	obj.Set("getBoundingClientRect", func() map[string]float64 {
		rect := n.Metrics().Rect
		return map[string]float64{
			"top":    rect.Top,
			"left":   rect.Left,
			"right":  rect.Left + rect.Width,
			"bottom": rect.Bottom(),
			"width":  rect.Width,
			"height": rect.Height,
		}
	})
	obj.Set("querySelectorAll", func(selector string) goja.Value {
		return r.nodeList(n.Query(selector))
	})
	obj.Set("getElementsByTagName", func(tag string) goja.Value {
		return r.nodeList(n.Query(tag))
	})

	return obj
}

// nodeList converts nodes into a JS array of element proxies.
func (r *Runtime) nodeList(nodes []*dom.Node) goja.Value {
	items := make([]interface{}, len(nodes))
	for i, n := range nodes {
		items[i] = r.elementObject(n)
	}
	return r.vm.NewArray(items...)
}

// nodeFromValue maps an element proxy back to its node.
func (r *Runtime) nodeFromValue(v goja.Value) *dom.Node {
	obj := v.ToObject(r.vm)
	if obj == nil {
		return nil
	}
	nidVal := obj.Get("__nid")
	if nidVal == nil || goja.IsUndefined(nidVal) || goja.IsNull(nidVal) {
		return nil
	}
	return r.nodeIDs[nidVal.ToInteger()]
}
