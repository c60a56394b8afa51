package profiling

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/gymratia/gymratia-api/pkg/logger"
	"go.uber.org/zap"
)

const (
	defaultAppName        = "gymratia-api"
	defaultUploadInterval = 15 * time.Second

	// sampling rates used when mutex or block profiles are requested
	mutexProfileFraction = 5
	blockProfileRate     = 5
)

// sampleTypes maps O11Y_PROFILING_SAMPLE_TYPES keys to pyroscope profile types.
// Order here is the default order.
var sampleTypes = []struct {
	key   string
	types []pyroscope.ProfileType
}{
	{"cpu", []pyroscope.ProfileType{pyroscope.ProfileCPU}},
	{"alloc_space", []pyroscope.ProfileType{pyroscope.ProfileAllocSpace}},
	{"alloc_objects", []pyroscope.ProfileType{pyroscope.ProfileAllocObjects}},
	{"goroutines", []pyroscope.ProfileType{pyroscope.ProfileGoroutines}},
	{"mutex", []pyroscope.ProfileType{pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration}},
	{"block", []pyroscope.ProfileType{pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration}},
}

// Config controls the pyroscope agent
type Config struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string // comma separated sampleTypes keys, empty for all
	UploadIntervalSeconds int
}

// Labels identify this process in the profiling backend
type Labels struct {
	ServiceName string
	Namespace   string
	Version     string
	InstanceID  string
	Environment string
}

// tags drops empty labels so the backend does not index blanks
func (l Labels) tags() map[string]string {
	tags := make(map[string]string, 5)
	for k, v := range map[string]string{
		"service_name":    l.ServiceName,
		"namespace":       l.Namespace,
		"service_version": l.Version,
		"instance":        l.InstanceID,
		"environment":     l.Environment,
	} {
		if v = strings.TrimSpace(v); v != "" {
			tags[k] = v
		}
	}
	return tags
}

// InitProfiler starts continuous profiling and returns a stop func
func InitProfiler(cfg Config, labels Labels) (func(), error) {
	if !cfg.Enabled {
		logger.Info("Continuous profiling disabled")
		return func() {}, nil
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("profiling endpoint is required when profiling is enabled")
	}

	interval := defaultUploadInterval
	if cfg.UploadIntervalSeconds > 0 {
		interval = time.Duration(cfg.UploadIntervalSeconds) * time.Second
	}

	profileTypes, err := parseProfileTypes(cfg.SampleTypes)
	if err != nil {
		return nil, err
	}
	enableRuntimeSampling(profileTypes)

	appName := strings.TrimSpace(cfg.AppName)
	if appName == "" {
		appName = defaultAppName
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: appName,
		ServerAddress:   endpoint,
		UploadRate:      interval,
		ProfileTypes:    profileTypes,
		Tags:            labels.tags(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start profiler: %w", err)
	}

	logger.Info("Continuous profiling initialized",
		zap.String("application_name", appName),
		zap.String("endpoint", endpoint),
		zap.Duration("upload_interval", interval),
		zap.Int("profile_types", len(profileTypes)),
	)

	return func() {
		if stopErr := profiler.Stop(); stopErr != nil {
			logger.Error("Failed to stop profiler", zap.Error(stopErr))
		}
	}, nil
}

func parseProfileTypes(value string) ([]pyroscope.ProfileType, error) {
	requested := make(map[string]bool)
	for _, raw := range strings.Split(value, ",") {
		if key := strings.ToLower(strings.TrimSpace(raw)); key != "" {
			requested[key] = true
		}
	}
	all := len(requested) == 0

	var types []pyroscope.ProfileType
	matched := 0
	for _, st := range sampleTypes {
		if all || requested[st.key] {
			types = append(types, st.types...)
		}
		if requested[st.key] {
			matched++
		}
	}

	if matched < len(requested) {
		known := make(map[string]bool, len(sampleTypes))
		for _, st := range sampleTypes {
			known[st.key] = true
		}
		for key := range requested {
			if !known[key] {
				return nil, fmt.Errorf("unsupported O11Y_PROFILING_SAMPLE_TYPES value: %q", key)
			}
		}
	}

	return types, nil
}

// enableRuntimeSampling turns on the runtime hooks mutex and block profiles depend on
func enableRuntimeSampling(types []pyroscope.ProfileType) {
	for _, t := range types {
		switch t {
		case pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration:
			runtime.SetMutexProfileFraction(mutexProfileFraction)
		case pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration:
			runtime.SetBlockProfileRate(blockProfileRate)
		}
	}
}
