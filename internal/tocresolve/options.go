package tocresolve

// Options controls whether a uasset's sibling uexp is merged onto it at
// serialization time, or passed through unchanged. Defaults to
// pass-through.
type Options struct {
	MergeUexp     bool
	MountPoint    string
	ContainerName string
}

// Option configures a Resolve call.
type Option func(*Options)

// WithUexpMerge toggles whether a uasset's sibling uexp is concatenated
// onto it (trimming the uexp's trailing 4-byte magic) before hashing and
// placement. Off by default.
func WithUexpMerge(enabled bool) Option {
	return func(o *Options) { o.MergeUexp = enabled }
}

// WithMountPoint overrides the default directory-index mount point
// ("../../../").
func WithMountPoint(mountPoint string) Option {
	return func(o *Options) { o.MountPoint = mountPoint }
}

func defaultOptions() Options {
	return Options{MergeUexp: false, MountPoint: "../../../"}
}
