package fur

type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

// UseSystem schedules a system from inside a module's Install.
func (cmd *Commands) UseSystem(system systemScheduleBuilder) *Commands {
	cmd.app.UseSystem(system)
	return cmd
}

// Exit stops App.Run after the current frame completes.
func (cmd *Commands) Exit() {
	cmd.app.exiting = true
}

func (cmd *Commands) Exiting() bool {
	return cmd.app.exiting
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
