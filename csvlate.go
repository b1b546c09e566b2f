// Package csvlate provides a batch translation engine for CSV localization files.
//
// Csvlate fills empty target-language cells of localization tables using a
// machine translation service, protecting format placeholders, caching
// repeated texts and retrying transient failures with exponential backoff.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/csvlate"
//	    "github.com/ZaguanLabs/csvlate/processor"
//	    "github.com/ZaguanLabs/csvlate/provider"
//	)
//
//	func main() {
//	    build := func() (csvlate.Client, error) {
//	        return provider.New(provider.Config{
//	            Name:   provider.NameDeepL,
//	            APIKey: os.Getenv("DEEPL_API_KEY"),
//	        })
//	    }
//
//	    summary, err := csvlate.Run(context.Background(), build, csvlate.BatchConfig{
//	        InputDir:  "input",
//	        OutputDir: "output",
//	        Codec:     processor.NewCSVCodec(),
//	        Logger:    func(line string) { fmt.Println(line) },
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(summary.TranslatedCells)
//	}
package csvlate
