// Package engine runs parsed pl2 programs.
//
// A [Runtime] walks a [lang.Program] command by command. Two directives are
// built in: "language <id> <version>" loads an extension through an
// [ext.Loader], and "abort" stops the run successfully. Every other command
// is looked up, in order, in the loaded language's simple-invoke table, its
// program-call table, and its fallback handler.
//
//	prog, err := lang.Parse(ctx, src)
//	if err != nil {
//		return err
//	}
//
//	return engine.Run(ctx, prog, engine.WithLogger(logger))
//
// A Runtime keeps its language between calls to [Runtime.Exec], which lets
// an interactive console feed it one program per entry. It is not safe for
// concurrent use.
package engine
