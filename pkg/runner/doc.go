/*
Package runner implements the interactive loop that drives an abacus Calculator.

The runner renders the current state, reads the next input, maps it to engine
events and commits the result, over and over until the input ends or the user
quits. How input is read and state is shown is delegated to an IOHandler:

  - TextHandler reads whitespace-separated tokens per line ("12 + 30 =").
  - KeyHandler puts the terminal in raw mode and presses one key per keystroke.
  - JSONHandler speaks JSON lines for scripted clients.

When a session.Manager and a session ID are configured, every input is applied
under the session lock and persisted, so a REPL can resume where it stopped.

# Usage

	r := runner.NewRunner(
		runner.WithCalculator(abacus.New()),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)
	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
