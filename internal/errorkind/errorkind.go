// Package errorkind defines the stable error-kind vocabulary surfaced by the
// supply chain to its callers, and the single rule for classifying a kind as
// the caller's fault versus the service's fault.
package errorkind

// Kind is a stable identifier for a category of failure. Kinds are part of
// the wire contract: callers may match on them, so existing values are never
// renamed or repurposed.
type Kind string

const (
	GitError                    Kind = "git_error"
	PathConversionError         Kind = "path_conversion_error"
	ConfigBuildFailure          Kind = "config_build_failure"
	CommandReadFailure          Kind = "command_read_failure"
	FileNotFound                Kind = "file_not_found"
	FailedToRead                Kind = "failed_to_read"
	FailedToDeleteFile          Kind = "failed_to_delete_file"
	ChannelCommunicationFailure Kind = "channel_communication_failure"
	UnexpectedResponseType      Kind = "unexpected_response_type"
	NotFound                    Kind = "not_found"
)

// IsClientFault reports whether k should be surfaced to an HTTP caller as a
// 4xx response. Only NotFound is the caller's fault; every other kind is an
// internal or upstream failure.
func IsClientFault(k Kind) bool {
	return k == NotFound
}
