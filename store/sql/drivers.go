package sqlstore

// Register the postgres driver so ResolveDialect("postgres") callers can
// open a database/sql handle without importing the driver themselves. The
// sqlite driver is cgo-backed and stays opt-in at the call site.
import _ "github.com/lib/pq"
