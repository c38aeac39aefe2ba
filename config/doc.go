// Package config exposes the coverage-test generation targets to other Go
// programs.
//
// A target names the SDK the coverage tests are generated for and points
// at everything the emitter needs:
//   - Emitter: the script that turns abstract tests into SDK test code
//   - Overrides: ordered scripts adjusting emitter output; later entries win
//   - Template: the file template generated tests are rendered into
//   - Tests: the abstract test definitions
//   - Ext and OutPath: where generated files are written
//
// Basic Usage:
//
//	r, err := config.Load("eyes_selenium_java")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(r.OutputFile("TestCheckWindow"))
//
// An empty name loads the default target. Unknown names fail with an error
// matching ErrNotFound:
//
//	if _, err := config.Load("nonexistent_sdk"); errors.Is(err, config.ErrNotFound) {
//	    // ...
//	}
//
// Targets Files:
//
// Additional targets can be read from YAML or JSON and merged over the
// built-in ones:
//
//	reg, err := config.LoadWithFile("targets.yaml")
//	r, err := reg.Load("eyes_selenium_ruby")
//
// Validation:
//
// Validate reports every malformed field of a record by path:
//
//	for _, e := range config.Validate(r) {
//	    log.Printf("%s: %s", e.Path, e.Message)
//	}
package config
