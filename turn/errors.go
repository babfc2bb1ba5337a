package turn

import "errors"

// ErrEmptyReply is returned when the provider's free-form completion comes
// back empty. The turn aborts before persistence rather than handing the
// caller an empty reply.
var ErrEmptyReply = errors.New("provider returned an empty reply")
