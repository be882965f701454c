// Package timezone keeps two notions of time apart. Instants (created_at, read receipts) are shown
// in the zone named by APP_TIMEZONE. Rental days are calendar dates without a zone and are kept as
// midnight UTC so they compare and subtract cleanly.
package timezone
