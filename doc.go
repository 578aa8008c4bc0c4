// Package matprop injects per-node shader parameter overrides into shared
// [Ebitengine] materials.
//
// Many sprites can draw with one base [Material] and still override single
// uniforms (a tint, a dissolve amount, a texture) without each sprite
// owning its own material. Overrides with the same shape collapse into one
// cached instance, and every override stays animatable.
//
// # Quick start
//
// Attach a [Host] to a node, enable it in a scene, and set parameters by
// name:
//
//	scene := matprop.NewScene()
//	sprite := matprop.NewSprite("hero", matprop.NewTintMaterial("tint"), 64, 64)
//	scene.Root().AddChild(sprite)
//
//	host := matprop.NewHost(sprite)
//	host.Enable(scene)
//	host.SetColor("TintColor", matprop.Color{R: 1, G: 0.2, B: 0.2, A: 1})
//
// Then drive the scene from your [ebiten.Game]:
//
//	func (g *Game) Update() error        { g.scene.Update(); return nil }
//	func (g *Game) Draw(s *ebiten.Image) { g.scene.Draw(s) }
//
// or let [Run] open a window and own the loop:
//
//	matprop.Run(scene, matprop.RunConfig{Title: "demo", ShowFPS: true})
//
// # Update order
//
// [Scene.Step] runs the attached [ScriptRunner], advances automatic [Tweener]s, runs the rebuild pass
// (structural changes queued by setters and removals), resolves the
// material every dirty node draws with through the scene's
// [MaterialCache], and finally fires [AfterLayout], where each dirty
// [Host] writes its parameters into its material instance exactly once.
//
// # Sharing
//
// Hosts with a zero sharing group get an instance keyed by their own id and
// parameter set. Hosts that set the same non-zero group (see
// [Host.SetSharingGroupID]) on the same base material share one instance.
//
// # Live bindings
//
// When a host is animatable (the default), each parameter is mirrored on a
// [LiveBinding] held by a hidden child node. An external animation driver
// such as the donburi system in matprop/ecs can write binding values
// directly; every change marks the host dirty.
//
// # Tweens
//
// [Tweener] interpolates from/to pairs under a [WrapMode] with delay,
// duration and interval settings. One-shot tweens of a single parameter
// use [gween] through [TweenFloat], [TweenColor], and [TweenVector].
//
// # Persistence
//
// [Host.MarshalState] and [Host.LoadState] save and restore a host's
// settings and parameters as JSON or YAML.
//
// # Scenario scripts
//
// [LoadScript] reads a JSON or YAML list of steps (set, expect, enable,
// disable, wait, screenshot) that [Scene.SetScriptRunner] plays back one
// per frame. Failed expectations are collected by [ScriptRunner.Failures].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package matprop
