/*
Package debugger implements Lace's interactive source-level debugger: a step engine that advances
a vm.LC3 one instruction at a time under a chosen mode (step, step-into, step-out, continue), and a
REPL controller that exposes it as a small fixed command language.

	engine := debugger.NewEngine(machine)
	ctl := debugger.NewController(engine, image, loader, os.Stdin, os.Stdout)
	action := ctl.Run(ctx)

See spec.md §4.6-§4.8 for the step engine's modes, the controller's command contracts, and the
command parser's grammar.
*/
package debugger
