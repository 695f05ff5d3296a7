package marketdata

import (
	"errors"
	"fmt"

	"github.com/golang/glog"
)

// ErrMalformed is wrapped when a response does not have the expected shape.
var ErrMalformed = errors.New("malformed market data")

func malformed(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	glog.Error(msg)
	return fmt.Errorf("%w: %s", ErrMalformed, msg)
}

func getMapField(
	record map[string]interface{},
	field string) (map[string]interface{}, error) {

	fieldInt, ok := record[field]
	if !ok {
		return nil, malformed("field %s not found", field)
	}
	value, ok := fieldInt.(map[string]interface{})
	if !ok {
		return nil, malformed("field %s is not an object, found %T", field, fieldInt)
	}
	return value, nil
}

func getArrayField(
	record map[string]interface{},
	field string) ([]interface{}, error) {

	fieldInt, ok := record[field]
	if !ok {
		return nil, malformed("field %s not found", field)
	}
	value, ok := fieldInt.([]interface{})
	if !ok {
		return nil, malformed("field %s is not an array, found %T", field, fieldInt)
	}
	return value, nil
}

func getStrField(
	record map[string]interface{},
	field string) (string, error) {

	fieldInt, ok := record[field]
	if !ok {
		return "", malformed("field %s not found", field)
	}
	value, ok := fieldInt.(string)
	if !ok {
		return "", malformed("field %s is not a string, found %T", field, fieldInt)
	}
	return value, nil
}

// firstObject returns element 0 of the array field, which must be an object.
func firstObject(
	record map[string]interface{},
	field string) (map[string]interface{}, error) {

	arr, err := getArrayField(record, field)
	if err != nil {
		return nil, err
	}
	if len(arr) == 0 {
		return nil, malformed("field %s is empty", field)
	}
	value, ok := arr[0].(map[string]interface{})
	if !ok {
		return nil, malformed("field %s[0] is not an object, found %T", field, arr[0])
	}
	return value, nil
}

// convertToFloatSlice maps JSON numbers to float64 and nulls to ok=false.
func convertToFloatSlice(data []interface{}) (values []float64, ok []bool) {
	values = make([]float64, len(data))
	ok = make([]bool, len(data))
	for i, v := range data {
		if f, isFloat := v.(float64); isFloat {
			values[i] = f
			ok[i] = true
		} else if v != nil {
			glog.Info(fmt.Sprintf("Value %v is not a number.", v))
		}
	}
	return values, ok
}
