package intake

// OrderPayload is the decoded JSON body of a webhook delivery. Callers
// decode with json.Number so big order ids survive intact.
type OrderPayload = map[string]any
