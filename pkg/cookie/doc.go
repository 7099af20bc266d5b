// Package cookie reads and writes the application's signed and encrypted cookies.
//
// The OAuth state travels in a signed cookie; the session (the signed-in
// sender's address) travels in an encrypted one.
package cookie
