package http1

import "time"

// dateLayout is RFC 1123 with the zone fixed to GMT, as HTTP wants it.
const dateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

const (
	badRequestStatus  = "HTTP/1.1 400 Bad Request\r\n"
	badRequestHeaders = "Content-Type: text/html; charset=utf-8\r\n" +
		"Content-Language: en\r\n" +
		"Connection: close\r\n"
)

// AppendBadRequest renders the response sent right before a connection carrying a
// malformed request is closed. It has no body.
func AppendBadRequest(buff []byte, now time.Time) []byte {
	buff = append(buff, badRequestStatus...)
	buff = AppendDate(buff, now)
	buff = append(buff, badRequestHeaders...)

	return append(buff, "\r\n"...)
}

// AppendDate renders the Date header line.
func AppendDate(buff []byte, now time.Time) []byte {
	buff = append(buff, "Date: "...)
	buff = now.UTC().AppendFormat(buff, dateLayout)

	return append(buff, "\r\n"...)
}
