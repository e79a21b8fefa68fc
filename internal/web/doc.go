// Package web serves the controller's configuration pages.
//
// # Routes
//
//	GET|POST /config/pixel      configuration form; arguments update the config
//	GET      /config/pixelvals  current values, one "field|kind|value" per line
//	GET      /ws                websocket; JSON config event on connect and change
//	GET      /style.css         form stylesheet
//	GET      /microajax.js      form script (setValues)
//	GET      /                  redirect to /config/pixel
//
// # Form Submissions
//
// Every request to /config/pixel answers 200 with the same static page. When
// the request carries arguments (query string, then urlencoded POST body) they
// are applied to the Store in order, and then the Persister and Reconfigurer
// each run exactly once. Malformed values never change the response; they
// are stored with the legacy zero fallback and logged as warnings.
//
// # Usage Example
//
//	store := pixelconfig.NewStore(cfg)
//	srv := web.New(&web.Config{Port: 80}, store, file, strip)
//	srv.OnChange(advertiser.Update)
//	if err := srv.Start(); err != nil { // blocks until SIGINT/SIGTERM
//	    log.Fatal(err)
//	}
package web
