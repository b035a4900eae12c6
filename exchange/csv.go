package exchange

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/kendall-kelly/shopstore/models"
)

var (
	clientHeader  = []string{"id", "name", "email", "phone", "address"}
	productHeader = []string{"id", "name", "price", "category", "quantity"}
	orderHeader   = []string{"id", "client_id", "date", "discount", "items"}
)

// csvRow is one data row keyed by its normalized header
type csvRow map[string]string

// readCSV reads a header row followed by data rows. Columns are matched by
// name, so files with extra or reordered columns still load.
func readCSV(r io.Reader, required ...string) ([]csvRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fileError("INVALID_CSV", "read header: %v", err)
	}
	for i, h := range header {
		header[i] = cleanHeader(h)
	}
	for _, col := range required {
		if !contains(header, col) {
			return nil, fileError("MISSING_COLUMN", "csv header lacks required column %q", col)
		}
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fileError("INVALID_CSV", "read row %d: %v", len(rows)+1, err)
		}
		row := make(csvRow, len(header))
		for i, h := range header {
			if i < len(record) {
				row[h] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func writeCSV(w io.Writer, header []string, records [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(records); err != nil {
		return err
	}
	return writer.Error()
}

// cleanHeader lowercases a header cell and strips a UTF-8 byte order mark
func cleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.TrimSpace(h))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func clientsToCSV(w io.Writer, clients []models.Client) error {
	records := make([][]string, len(clients))
	for i, c := range clients {
		records[i] = []string{formatID(c.ID), c.Name, c.Email, c.Phone, c.Address}
	}
	return writeCSV(w, clientHeader, records)
}

func clientsFromCSV(r io.Reader) ([]models.Client, error) {
	rows, err := readCSV(r, "name", "email", "phone")
	if err != nil {
		return nil, err
	}
	clients := make([]models.Client, len(rows))
	for i, row := range rows {
		clients[i] = models.Client{
			Name:    row["name"],
			Email:   row["email"],
			Phone:   row["phone"],
			Address: row["address"],
		}
	}
	return clients, nil
}

func productsToCSV(w io.Writer, products []models.Product) error {
	records := make([][]string, len(products))
	for i, p := range products {
		records[i] = []string{
			formatID(p.ID),
			p.Name,
			strconv.FormatFloat(p.Price, 'f', -1, 64),
			p.Category,
			strconv.Itoa(p.Quantity),
		}
	}
	return writeCSV(w, productHeader, records)
}

func productsFromCSV(r io.Reader) ([]models.Product, error) {
	rows, err := readCSV(r, "name", "price")
	if err != nil {
		return nil, err
	}
	products := make([]models.Product, len(rows))
	for i, row := range rows {
		price, err := models.ParsePrice(row["price"])
		if err != nil {
			return nil, rowError(i+1, err)
		}
		quantity := 0
		if row["quantity"] != "" {
			if quantity, err = models.ParseQuantity(row["quantity"]); err != nil {
				return nil, rowError(i+1, err)
			}
		}
		products[i] = models.Product{
			Name:     row["name"],
			Price:    price,
			Category: row["category"],
			Quantity: quantity,
		}
	}
	return products, nil
}

func ordersToCSV(w io.Writer, orders []orderRecord) error {
	records := make([][]string, len(orders))
	for i, o := range orders {
		records[i] = []string{
			formatID(o.ID),
			formatID(o.ClientID),
			o.Date,
			strconv.FormatFloat(o.Discount, 'f', -1, 64),
			formatItems(o.Items),
		}
	}
	return writeCSV(w, orderHeader, records)
}

func ordersFromCSV(r io.Reader) ([]orderRecord, error) {
	rows, err := readCSV(r, "client_id", "date", "items")
	if err != nil {
		return nil, err
	}
	orders := make([]orderRecord, len(rows))
	for i, row := range rows {
		clientID, err := strconv.ParseUint(row["client_id"], 10, 64)
		if err != nil {
			return nil, rowError(i+1, fileError("INVALID_CLIENT_ID", "client_id %q is not a number", row["client_id"]))
		}
		var discount float64
		if row["discount"] != "" {
			if discount, err = strconv.ParseFloat(row["discount"], 64); err != nil {
				return nil, rowError(i+1, fileError("INVALID_DISCOUNT", "discount %q is not a number", row["discount"]))
			}
		}
		items, err := parseItems(row["items"])
		if err != nil {
			return nil, rowError(i+1, err)
		}
		orders[i] = orderRecord{
			ClientID: uint(clientID),
			Date:     row["date"],
			Discount: discount,
			Items:    items,
		}
	}
	return orders, nil
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
