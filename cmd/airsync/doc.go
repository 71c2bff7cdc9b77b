// Command airsync keeps local copies of upcoming broadcast recordings
// in sync with a station's scheduling API. Run with no arguments it
// starts the recurring daemon; `airsync now` runs one pipeline cycle
// and exits.
package main
