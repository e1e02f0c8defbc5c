package fur

// AppBuilder collects modules and installs them, in order, on Build.
type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{app: newApp()}
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)

	return b
}

func (b *AppBuilder) Build() *App {
	app := b.app.UseModules(b.modules...)

	log := app.Logger()
	if log.DebugEnabled() {
		for i, module := range b.modules {
			log.Debugf("Module %d: %T", i, module)
		}
	}
	return app
}

// Run builds the app and runs it until a system calls Exit.
func (b *AppBuilder) Run() *App {
	app := b.Build()
	app.Run()
	return app
}
