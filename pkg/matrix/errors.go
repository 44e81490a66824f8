package matrix

import "errors"

// ErrSingular reports a factorization failure: the assembled system has no
// unique solution (floating node, shorted source, ill-conditioned values).
var ErrSingular = errors.New("singular matrix")
