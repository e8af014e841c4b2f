// Package csvsource reads branches, vehicles and trips from CSV files.
//
// Columns are looked up by header name, so extra columns and any column order
// are accepted. Rows with a missing or unparseable required cell are skipped
// and logged at debug level.
//
// Expected files:
//
//	branches.csv  name,latitude,longitude,vehicles
//	vehicles.csv  id,type,range_km,trips
//	trips.csv     id,vehicle_id,departure_time,arrival_time
//
// List cells such as vehicles and trips hold a serialized list, for example
// "['E1', 'C2']". They are decoded with ParseList.
package csvsource
