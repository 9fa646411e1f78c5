package sgcc

// SecureKeyData is the key material handed out by the auth center.
type SecureKeyData struct {
	SecureCode string `json:"secureCode"`
	PubKey     string `json:"pubKey"`
}

// APIResponse is the envelope of the secureKey/get endpoint.
//
//	{
//	    "status": 0,
//	    "message": "Success",
//	    "data": {
//	        "secureCode": "0b20f38e205349e8b850660bc61e0f23",
//	        "pubKey": "0402dd60574dc653...ff902ee8c8"
//	    },
//	    "success": true
//	}
type APIResponse struct {
	Status  int           `json:"status"`
	Message string        `json:"message"`
	Data    SecureKeyData `json:"data"`
	Success bool          `json:"success"`
}

// CrawlResult is one attempt at fetching a key, it is what gets appended
// to the cache file. Error is always written, as null on success.
type CrawlResult struct {
	Timestamp string       `json:"timestamp"`
	Success   bool         `json:"success"`
	Data      *APIResponse `json:"data,omitempty"`
	Error     *string      `json:"error"`
}

// Stats summarizes a Crawler.Run.
type Stats struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
}
