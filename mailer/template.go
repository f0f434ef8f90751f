package mailer

import (
	"fmt"
	"time"
)

const envelopeStyle = "background-color: #eee; padding: 20px; border-radius: 20px;"

// Envelope wraps email content in the branded HTML frame every outbound
// message shares.
func Envelope(content string) string {
	return fmt.Sprintf(`
        <html>
            <div style=%q>
                <h1>Welcome to OpenHouse</h1>
                %s
                <p>&copy; %d</p>
            </div>
        </html>
    `, envelopeStyle, content, time.Now().Year())
}
