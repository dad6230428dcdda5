/*
Package sandbox executes the injected height-monitor script in an isolated
goja runtime.

# Overview

The runtime exposes the minimal browser surface the monitor needs, nothing
more:

  - document: element proxies over a dom.Document, with live metric
    accessors (scrollHeight, offsetHeight, clientHeight, bounding boxes)
    and simple selector queries
  - window: viewport height, event listeners, and the MathViewBridge
    posting channel to the host
  - ResizeObserver and MutationObserver shims wired to the document's
    change dispatch
  - setTimeout/clearTimeout on a virtual clock driven by Advance

# Virtual time

Scripts never see wall-clock timers. Debounce windows and the staggered
recheck schedule only fire when the host advances virtual time, which makes
an inherently racy settling process fully deterministic: load the document,
feed metric changes, advance past the settling window, and read the emitted
notifications off the bridge.

# Security

The runtime removes Node-style globals (require, process, module) and
interrupts scripts that exceed the configured timeout. No filesystem,
network, or host memory is reachable from script code; the only outbound
path is the bridge.

# Lifecycle

A Load is one content lifetime: previous observers, timers, and element
proxies are discarded, so the monitor's first measurement after a reload
gets its growth buffer again. Runtimes are reusable through Reset and
poolable through Pool.
*/
package sandbox
