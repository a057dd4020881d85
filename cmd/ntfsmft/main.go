// Command ntfsmft scans a raw NTFS volume or disk image for MFT file records and writes one decoded entry per
// line, as JSON, to an output file.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/spf13/cobra"

	"github.com/scanollie/ntfsmft/binutil"
	"github.com/scanollie/ntfsmft/bootsect"
	"github.com/scanollie/ntfsmft/fragment"
	"github.com/scanollie/ntfsmft/mft"
)

const supportedOemId = "NTFS    "

const (
	exitCodeUserError int = iota + 2
	exitCodeFunctionalError
	exitCodeTechnicalError
)

const isWin = runtime.GOOS == "windows"

// scanStride mirrors mft's internal candidate-offset alignment: the record walker re-implemented here for the
// --fixup path must land on the same offsets ScanImage would, and mft doesn't export its stride.
const scanStride = 8

var (
	verbose      bool
	force        bool
	showProgress bool
	useFixup     bool
	followMft    bool
	recordSize   int
)

func main() {
	root := &cobra.Command{
		Use:   "ntfsmft <image> <output.ndjson>",
		Short: "Scan an NTFS image for MFT file records and emit them as NDJSON",
		Long: "ntfsmft strides over a raw NTFS volume or image file looking for file records (the \"FILE\" signature),\n" +
			"decodes every one it can, and writes one JSON object per line to the output file.",
		Args: cobra.ExactArgs(2),
		RunE: runScan,
	}

	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "print details about what's going on")
	root.Flags().BoolVarP(&force, "force", "f", false, "overwrite the output file if it already exists")
	root.Flags().BoolVarP(&showProgress, "progress", "p", false, "show progress while scanning")
	root.Flags().BoolVar(&useFixup, "fixup", false, "apply MFT update-sequence fixup to each candidate record before parsing it")
	root.Flags().BoolVar(&followMft, "follow-mft", false, "locate $MFT via the boot sector and follow its own data runs instead of flat-scanning the image")
	root.Flags().IntVar(&recordSize, "record-size", 0, "file record size in bytes; 0 auto-detects from the boot sector, falling back to 1024")

	if err := root.Execute(); err != nil {
		os.Exit(exitCodeUserError)
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	start := time.Now()

	imagePath := args[0]
	if isWin && len(imagePath) <= 3 {
		imagePath = `\\.\` + imagePath
	}
	outPath := args[1]

	in, err := os.Open(imagePath)
	if err != nil {
		fatalf(exitCodeTechnicalError, "Unable to open image %s: %v\n", imagePath, err)
	}
	defer in.Close()

	printVerbose("Memory-mapping %s\n", imagePath)
	image, err := mmap.Map(in, mmap.RDONLY, 0)
	if err != nil {
		fatalf(exitCodeTechnicalError, "Unable to memory-map image: %v\n", err)
	}
	defer image.Unmap()

	bootSector, bootOk := tryParseBootSector(image)
	size := recordSize
	if size <= 0 {
		if bootOk {
			size = bootSector.FileRecordSegmentSizeInBytes
			printVerbose("Boot sector reports file record size %d bytes\n", size)
		} else {
			size = mft.DefaultRecordSize
			printVerbose("No usable boot sector found; assuming default record size %d bytes\n", size)
		}
	}

	out, err := openOutputFile(outPath)
	if err != nil {
		fatalf(exitCodeFunctionalError, "Unable to open output file: %v\n", err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	enc := json.NewEncoder(w)

	var count int
	if followMft {
		if !bootOk {
			fatalf(exitCodeFunctionalError, "--follow-mft requires a valid NTFS boot sector (got OemId %q)\n", bootSector.OemId)
		}
		count, err = scanFollowingMft(image, bootSector, size, enc)
	} else {
		count, err = scanFlat(image, size, enc)
	}
	if err != nil {
		fatalf(exitCodeTechnicalError, "Error while scanning: %v\n", err)
	}

	if err := w.Flush(); err != nil {
		fatalf(exitCodeTechnicalError, "Error flushing output: %v\n", err)
	}

	printVerbose("Wrote %d entries in %v\n", count, time.Since(start))
	return nil
}

func tryParseBootSector(image []byte) (bootsect.BootSector, bool) {
	if len(image) < 512 {
		return bootsect.BootSector{}, false
	}
	bs, err := bootsect.Parse(image[:512])
	if err != nil || bs.OemId != supportedOemId {
		return bs, false
	}
	return bs, true
}

// scanFlat walks the whole image at mft's usual 8-byte stride, optionally applying fixup to each candidate
// record first. When useFixup is false this produces exactly what mft.ScanImageWithRecordSize would.
func scanFlat(image []byte, recordSize int, enc *json.Encoder) (int, error) {
	if !useFixup {
		return encodeAll(mft.ScanImageWithRecordSize(image, recordSize), enc)
	}

	count := 0
	total := len(image)
	for offset := 0; offset+4 <= total; offset += scanStride {
		if showProgress && offset%(scanStride*1_000_000) == 0 {
			printProgress(int64(offset), int64(total))
		}
		if offset+recordSize > total {
			continue
		}
		candidate := image[offset : offset+recordSize]
		if string(candidate[0:4]) != "FILE" {
			continue
		}
		fixed, ok := fixupRecord(candidate)
		if !ok {
			continue
		}
		entry, ok := mft.ParseRecordWithSize(fixed, 0, recordSize)
		if !ok {
			continue
		}
		entry.Offset = offset
		if err := enc.Encode(entry); err != nil {
			return count, err
		}
		count++
	}
	if showProgress {
		printProgress(int64(total), int64(total))
		fmt.Println()
	}
	return count, nil
}

// fixupRecord reads the update sequence array location out of a candidate record's header and applies
// mft.ApplyFixup; ok is false when the record is too short to carry that header or the fixup itself fails
// (a mismatched update sequence number, most often a candidate offset that isn't really a record).
func fixupRecord(record []byte) ([]byte, bool) {
	r := binutil.NewLittleEndianReader(record)
	usOffset, ok := r.TryUint16(0x04)
	if !ok {
		return nil, false
	}
	usCount, ok := r.TryUint16(0x06)
	if !ok {
		return nil, false
	}
	fixed, err := mft.ApplyFixup(record, int(usOffset), int(usCount))
	if err != nil {
		return nil, false
	}
	return fixed, true
}

// scanFollowingMft reads $MFT's own record (record 0, located via the boot sector) and scans only the bytes
// belonging to its $DATA stream, reconstructed through its data runs - a directed walk instead of a surface scan.
func scanFollowingMft(image []byte, bs bootsect.BootSector, recordSize int, enc *json.Encoder) (int, error) {
	mftOffset := int(bs.MftClusterNumber) * bs.BytesPerCluster
	printVerbose("Reading $MFT file record at offset %d\n", mftOffset)

	mftRecord, ok := mft.ParseRecordWithSize(image, mftOffset, recordSize)
	if !ok {
		return 0, fmt.Errorf("unable to parse $MFT's own file record at offset %d", mftOffset)
	}

	var dataRuns []mft.DataRun
	for _, ds := range mftRecord.DataStreams {
		if ds.Name == "" && !ds.Resident {
			dataRuns = ds.DataRuns
			break
		}
	}
	if len(dataRuns) == 0 {
		return 0, fmt.Errorf("$MFT record has no non-resident unnamed $DATA attribute")
	}

	fragments := mft.DataRunsToFragments(dataRuns, bs.BytesPerCluster)
	totalLength := fragment.TotalLength(fragments)
	printVerbose("Reconstructing %d bytes of $MFT across %d fragments\n", totalLength, len(fragments))

	reader := fragment.NewReader(bytes.NewReader(image), fragments)
	mftBytes := make([]byte, totalLength)
	if _, err := io.ReadFull(reader, mftBytes); err != nil {
		return 0, fmt.Errorf("reading reconstructed $MFT: %w", err)
	}

	return encodeAll(mft.ScanImageWithRecordSize(mftBytes, recordSize), enc)
}

func encodeAll(entries func(func(mft.Entry) bool), enc *json.Encoder) (int, error) {
	count := 0
	var encodeErr error
	for entry := range entries {
		if err := enc.Encode(entry); err != nil {
			encodeErr = err
			break
		}
		count++
		if showProgress && count%10_000 == 0 {
			fmt.Fprintf(os.Stderr, "scanned %d entries so far\n", count)
		}
	}
	return count, encodeErr
}

func openOutputFile(outfile string) (*os.File, error) {
	if force {
		return os.Create(outfile)
	}
	return os.OpenFile(outfile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0666)
}

func printProgress(n, total int64) {
	if total == 0 {
		return
	}
	percentage := float64(n) / float64(total) * 100
	barCount := int(percentage / 2.0)
	spaceCount := 50 - barCount
	fmt.Printf("\r[%s%s] %.2f%%     ", strings.Repeat("|", barCount), strings.Repeat(" ", spaceCount), percentage)
}

func fatalf(exitCode int, format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format, v...)
	os.Exit(exitCode)
}

func printVerbose(format string, v ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, v...)
	}
}
