// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// trackscrape sends operator-supplied cookies, headers and proxy credentials
// to the catalog site. Those values show up in request logs at debug level,
// so every logger in the application is built on SecureHandler:
//   - HTTP headers (Authorization, Cookie, Set-Cookie, Proxy-Authorization)
//   - Token-like values detected by pattern matching (JWT, bearer, basic)
//   - Credentials embedded in proxy or URL userinfo ("user:pass@host")
//
// # Usage
//
//	logger := log.NewSecureLoggerWithLevel(os.Stderr, log.LevelFor(true, slog.LevelWarn), false)
//
//	logger.Debug("fetching page",
//	    "url", "https://www.coursera.org/search?query=go",
//	    "cookie", "CAUTH=abc",  // masked
//	    "proxy", "alice:pw@127.0.0.1:1080", // userinfo masked
//	)
package log
