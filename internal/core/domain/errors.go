package domain

import "go.trai.ch/zerr"

var (
	// ErrTaskAlreadyExists is returned when attempting to add a task with a name that already exists.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrMissingDependency is returned when a series refers to a task that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a series reaches itself.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskNotFound is returned when a requested task is not found in the graph.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrAlreadyServing is returned when the serving state is entered a second time.
	ErrAlreadyServing = zerr.New("already serving")

	// ErrBuildExecutionFailed is returned when the build execution fails.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrTaskExecutionFailed is returned when a task execution fails.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrUnknownStage is returned when a chain contains a stage the runner cannot apply.
	ErrUnknownStage = zerr.New("unknown stage")

	// ErrStyleCompileFailed is returned when the stylesheet compiler rejects a source.
	ErrStyleCompileFailed = zerr.New("failed to compile stylesheet")

	// ErrToolchainUnavailable is returned when an external compiler cannot be started.
	ErrToolchainUnavailable = zerr.New("stylesheet compiler unavailable")

	// ErrScriptTransformFailed is returned when transpiling or minifying a script fails.
	ErrScriptTransformFailed = zerr.New("failed to transform script")

	// ErrStyleTransformFailed is returned when prefixing or minifying a stylesheet fails.
	ErrStyleTransformFailed = zerr.New("failed to transform stylesheet")

	// ErrSourceMapDecodeFailed is returned when an inline source map cannot be decoded.
	ErrSourceMapDecodeFailed = zerr.New("failed to decode inline source map")

	// ErrInvalidGlob is returned when a source or watch pattern cannot be compiled.
	ErrInvalidGlob = zerr.New("invalid glob pattern")

	// ErrSourceReadFailed is returned when a source file cannot be read.
	ErrSourceReadFailed = zerr.New("failed to read source file")

	// ErrOutputWriteFailed is returned when an output file cannot be written.
	ErrOutputWriteFailed = zerr.New("failed to write output file")

	// ErrStoreCreateFailed is returned when the build info store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create build info store directory")

	// ErrStoreReadFailed is returned when the build info cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build info")

	// ErrStoreUnmarshalFailed is returned when the build info cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal build info")

	// ErrStoreMarshalFailed is returned when the build info cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal build info")

	// ErrStoreWriteFailed is returned when the build info cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build info")

	// ErrBuildInfoUpdateFailed is returned when updating the build info store fails.
	ErrBuildInfoUpdateFailed = zerr.New("failed to update build info store")

	// ErrOutputHashComputationFailed is returned when output hash computation fails.
	ErrOutputHashComputationFailed = zerr.New("failed to compute output hash")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigInvalid is returned when a configuration value is out of range.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrWatcherFailed is returned when the file watcher cannot be started.
	ErrWatcherFailed = zerr.New("failed to start file watcher")

	// ErrServerFailed is returned when the development server stops unexpectedly.
	ErrServerFailed = zerr.New("development server failed")
)
