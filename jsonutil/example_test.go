package jsonutil_test

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/drblury/readyweaver/jsonutil"
)

func Example() {
	type probeReport struct {
		Target   string `json:"target"`
		Attempts int    `json:"attempts"`
		State    string `json:"state"`
	}

	report := probeReport{
		Target:   "http://localhost:8080/helloHttp",
		Attempts: 4,
		State:    "succeeded",
	}

	data, _ := jsonutil.Marshal(report)
	fmt.Println(string(data))

	var decoded probeReport
	_ = jsonutil.Unmarshal(data, &decoded)
	fmt.Println(decoded.Attempts)

	buf := &bytes.Buffer{}
	_ = jsonutil.Encode(buf, report)

	var streamed probeReport
	_ = jsonutil.Decode(buf, &streamed)
	fmt.Println(streamed.State)

	// Output:
	// {"target":"http://localhost:8080/helloHttp","attempts":4,"state":"succeeded"}
	// 4
	// succeeded
}

func ExampleMarshalIndent() {
	type policy struct {
		MaxAttempts int      `json:"maxAttempts"`
		Backoff     []string `json:"backoff"`
	}

	data, err := jsonutil.MarshalIndent(policy{MaxAttempts: 3, Backoff: []string{"100ms", "200ms"}}, "", "  ")
	if err != nil {
		fmt.Println("marshal error:", err)
		return
	}
	fmt.Println(strings.TrimSpace(string(data)))

	// Output:
	// {
	//   "maxAttempts": 3,
	//   "backoff": [
	//     "100ms",
	//     "200ms"
	//   ]
	// }
}

func ExampleEncodeIndent() {
	buf := &bytes.Buffer{}
	if err := jsonutil.EncodeIndent(buf, map[string]int{"attempts": 1}); err != nil {
		fmt.Println("encode error:", err)
		return
	}
	fmt.Print(buf.String())

	// Output:
	// {
	//   "attempts": 1
	// }
}
