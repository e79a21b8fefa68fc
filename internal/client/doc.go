// Package client talks to a running pixel controller over HTTP.
//
// Reads go through the values page (/config/pixelvals) and are parsed with
// pixelconfig.ParseValues. Writes submit the configuration form
// (/config/pixel) as a query string holding only the fields being changed;
// the controller keeps every field that is not sent.
//
// # Error Handling
//
// Failures are returned as *DeviceError with a category (network, timeout,
// connection refused, DNS, HTTP, parse, validation). Retryable errors are
// retried with exponential backoff. GetShortErrorMessage and
// GetTroubleshootingHint turn them into CLI output.
//
// # Usage Example
//
//	c := client.NewClient("192.168.1.40", 80)
//	cfg, err := c.GetConfig(ctx)
//	if err != nil {
//	    fmt.Println(client.GetShortErrorMessage(err))
//	    return err
//	}
//
//	result := c.UpdateAndVerify(ctx, client.NewUpdate().SetUniverse(3), nil)
//	if !result.Success {
//	    return result.Error
//	}
//
// The form handler never rejects input, so UpdateAndVerify is the way to find
// out that a value was coerced: the expected record is computed with the same
// parsing rules the controller uses, and any difference is a mismatch.
package client
